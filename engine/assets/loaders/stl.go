package loaders

import (
	"github.com/hschendel/stl"
	"github.com/spaghettifunk/urdfviz/engine/math"
)

// StlImporter reads ascii and binary STL files. Every STL facet is a
// triangle with its own three vertices.
type StlImporter struct{}

func (StlImporter) Import(path string, options ImportOptions) ([]RawMesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := RawMesh{
		Name:     solid.Name,
		Vertices: make([]math.Vec3, 0, len(solid.Triangles)*3),
		Faces:    make([][]uint32, 0, len(solid.Triangles)),
	}
	for _, t := range solid.Triangles {
		base := uint32(len(raw.Vertices))
		for _, v := range t.Vertices {
			raw.Vertices = append(raw.Vertices, math.NewVec3(v[0], v[1], v[2]))
		}
		raw.Faces = append(raw.Faces, []uint32{base, base + 1, base + 2})
	}
	return []RawMesh{raw}, nil
}
