package loaders

import (
	"fmt"

	"github.com/g3n/engine/loader/obj"
	"github.com/spaghettifunk/urdfviz/engine/math"
)

// ObjImporter reads Wavefront obj files with the g3n decoder. Obj has no up
// axis and its vertices already share one frame, so the options need no
// handling here.
type ObjImporter struct{}

func (ObjImporter) Import(path string, options ImportOptions) ([]RawMesh, error) {
	dec, err := obj.Decode(path, "")
	if err != nil {
		return nil, err
	}

	vertices := make([]math.Vec3, 0, len(dec.Vertices)/3)
	for i := 0; i+2 < len(dec.Vertices); i += 3 {
		vertices = append(vertices, math.NewVec3(dec.Vertices[i], dec.Vertices[i+1], dec.Vertices[i+2]))
	}

	meshes := make([]RawMesh, 0, len(dec.Objects))
	for _, o := range dec.Objects {
		raw := RawMesh{Name: o.Name, Vertices: vertices}
		for _, f := range o.Faces {
			face := make([]uint32, 0, len(f.Vertices))
			for _, idx := range f.Vertices {
				if idx < 0 {
					return nil, fmt.Errorf("object %q: negative vertex index %d", o.Name, idx)
				}
				face = append(face, uint32(idx))
			}
			raw.Faces = append(raw.Faces, face)
		}
		meshes = append(meshes, raw)
	}
	return meshes, nil
}
