package loaders

import "github.com/spaghettifunk/urdfviz/engine/math"

// ImportOptions is handed to every importer. The mesh loader always asks for
// vertices pre-transformed into one frame and for the up-axis hint of the
// file format to be ignored, so every format shares one orientation.
type ImportOptions struct {
	PreTransformVertices bool
	IgnoreUpDirection    bool
}

// DefaultImportOptions is the configuration the mesh loader uses.
var DefaultImportOptions = ImportOptions{
	PreTransformVertices: true,
	IgnoreUpDirection:    true,
}

// RawMesh is one sub-mesh as produced by an importer: vertex positions and
// faces of any arity, indexing into Vertices.
type RawMesh struct {
	Name     string
	Vertices []math.Vec3
	Faces    [][]uint32
}

// Importer parses a mesh file into sub-meshes.
type Importer interface {
	Import(path string, options ImportOptions) ([]RawMesh, error)
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(path string, options ImportOptions) ([]RawMesh, error)

func (f ImporterFunc) Import(path string, options ImportOptions) ([]RawMesh, error) {
	return f(path, options)
}
