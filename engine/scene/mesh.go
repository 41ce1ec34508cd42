package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
)

// Mesh is an immutable triangle buffer. It is shared by pointer between every
// node that draws it and is never written after NewMesh returns.
type Mesh struct {
	id        uuid.UUID
	name      string
	vertices  []math.Vec3
	triangles [][3]uint32
}

// NewMesh copies the given buffers into a new Mesh.
func NewMesh(name string, vertices []math.Vec3, triangles [][3]uint32) *Mesh {
	m := &Mesh{
		id:        core.NewIdentifier(),
		name:      name,
		vertices:  make([]math.Vec3, len(vertices)),
		triangles: make([][3]uint32, len(triangles)),
	}
	copy(m.vertices, vertices)
	copy(m.triangles, triangles)
	return m
}

func (m *Mesh) ID() uuid.UUID {
	return m.id
}

func (m *Mesh) Name() string {
	return m.name
}

// Vertices returns the vertex positions. The slice must not be modified.
func (m *Mesh) Vertices() []math.Vec3 {
	return m.vertices
}

// Triangles returns the triangle index triples. The slice must not be modified.
func (m *Mesh) Triangles() [][3]uint32 {
	return m.triangles
}

func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}
