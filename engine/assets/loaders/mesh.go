package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

// MeshLoader turns mesh files into shared scene meshes. Importers are chosen
// by lower-cased file extension.
type MeshLoader struct {
	importers map[string]Importer
	options   ImportOptions
}

func NewMeshLoader() *MeshLoader {
	return &MeshLoader{
		importers: map[string]Importer{},
		options:   DefaultImportOptions,
	}
}

// Register binds an importer to an extension such as ".obj".
func (ml *MeshLoader) Register(ext string, importer Importer) {
	ml.importers[strings.ToLower(ext)] = importer
}

// Supports reports whether an importer is registered for path.
func (ml *MeshLoader) Supports(path string) bool {
	_, ok := ml.importers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load imports path and returns one mesh per sub-mesh. Only triangle faces
// are kept; quads and polygons are dropped without triangulation.
func (ml *MeshLoader) Load(path string) ([]*scene.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	importer, ok := ml.importers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedMesh, path)
	}

	raws, err := importer.Import(path, ml.options)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh file %s: %w", path, err)
	}

	meshes := make([]*scene.Mesh, 0, len(raws))
	for _, raw := range raws {
		name := raw.Name
		if name == "" {
			name = filepath.Base(path)
		}
		vertices, triangles := triangulated(raw)
		if dropped := len(raw.Faces) - len(triangles); dropped > 0 {
			core.LogDebug("%s: dropped %d non triangle faces", name, dropped)
		}
		meshes = append(meshes, scene.NewMesh(name, vertices, triangles))
	}
	return meshes, nil
}

func triangulated(raw RawMesh) ([]math.Vec3, [][3]uint32) {
	vertices := make([]math.Vec3, len(raw.Vertices))
	copy(vertices, raw.Vertices)

	count := uint32(len(vertices))
	triangles := make([][3]uint32, 0, len(raw.Faces))
	for _, f := range raw.Faces {
		if len(f) != 3 {
			continue
		}
		if f[0] >= count || f[1] >= count || f[2] >= count {
			continue
		}
		triangles = append(triangles, [3]uint32{f[0], f[1], f[2]})
	}
	return vertices, triangles
}
