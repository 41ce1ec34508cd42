package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
)

type NodeKind int

const (
	NodeKindGroup NodeKind = iota
	NodeKindCube
	NodeKindCylinder
	NodeKindSphere
	NodeKindMesh
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindGroup:
		return "group"
	case NodeKindCube:
		return "cube"
	case NodeKindCylinder:
		return "cylinder"
	case NodeKindSphere:
		return "sphere"
	case NodeKindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Shape holds the construction parameters of a primitive node. Size is used
// by cubes, Radius and Height by cylinders, Radius by spheres.
type Shape struct {
	Size   math.Vec3
	Radius float32
	Height float32
}

// DefaultColor is the color of a freshly created node.
var DefaultColor = math.NewVec3(1, 1, 1)

// Node is one element of the scene graph. Nodes are created through their
// parent and stay attached until Unlink.
type Node struct {
	id        uuid.UUID
	kind      NodeKind
	shape     Shape
	mesh      *Mesh
	transform *math.Transform
	color     math.Vec3
	visible   bool
	parent    *Node
	children  []*Node
}

func newNode(kind NodeKind, parent *Node) *Node {
	n := &Node{
		id:        core.NewIdentifier(),
		kind:      kind,
		transform: math.TransformCreate(),
		color:     DefaultColor,
		visible:   true,
		parent:    parent,
	}
	if parent != nil {
		n.transform.Parent = parent.transform
		parent.children = append(parent.children, n)
	}
	return n
}

func (n *Node) ID() uuid.UUID     { return n.id }
func (n *Node) Kind() NodeKind    { return n.kind }
func (n *Node) Shape() Shape      { return n.shape }
func (n *Node) Mesh() *Mesh       { return n.mesh }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Visible() bool     { return n.visible }
func (n *Node) SetVisible(v bool) { n.visible = v }
func (n *Node) Color() math.Vec3  { return n.color }

func (n *Node) AddGroup() *Node {
	return newNode(NodeKindGroup, n)
}

func (n *Node) AddCube(wx, wy, wz float32) *Node {
	c := newNode(NodeKindCube, n)
	c.shape.Size = math.NewVec3(wx, wy, wz)
	return c
}

// AddCylinder adds a cylinder of the given radius whose height runs along
// the local y axis, centered on the origin.
func (n *Node) AddCylinder(radius, height float32) *Node {
	c := newNode(NodeKindCylinder, n)
	c.shape.Radius = radius
	c.shape.Height = height
	return c
}

func (n *Node) AddSphere(radius float32) *Node {
	s := newNode(NodeKindSphere, n)
	s.shape.Radius = radius
	return s
}

// AddMesh adds a node drawing the shared mesh, scaled per axis.
func (n *Node) AddMesh(mesh *Mesh, scale math.Vec3) *Node {
	m := newNode(NodeKindMesh, n)
	m.mesh = mesh
	m.transform.SetScale(scale)
	return m
}

// Unlink detaches the node from its parent.
func (n *Node) Unlink() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.transform.Parent = nil
}

// SetColor colors the node and all of its descendants.
func (n *Node) SetColor(r, g, b float32) {
	n.color = math.NewVec3(math.Saturate(r), math.Saturate(g), math.Saturate(b))
	for _, c := range n.children {
		c.SetColor(r, g, b)
	}
}

// Colors snapshots the color of n and every descendant, keyed by node id.
func (n *Node) Colors() map[uuid.UUID]math.Vec3 {
	colors := map[uuid.UUID]math.Vec3{}
	n.Walk(func(c *Node) bool {
		colors[c.id] = c.color
		return true
	})
	return colors
}

// RestoreColors applies a snapshot taken by Colors. Nodes missing from the
// snapshot keep their current color.
func (n *Node) RestoreColors(colors map[uuid.UUID]math.Vec3) {
	n.Walk(func(c *Node) bool {
		if color, ok := colors[c.id]; ok {
			c.color = color
		}
		return true
	})
}

// SetLocalTransformation replaces position and rotation, keeping the scale.
func (n *Node) SetLocalTransformation(t math.Transform) {
	n.transform.SetPositionRotation(t.Position, t.Rotation)
}

func (n *Node) SetLocalRotation(q math.Quaternion) {
	n.transform.SetRotation(q)
}

func (n *Node) SetLocalTranslation(v math.Vec3) {
	n.transform.SetPosition(v)
}

func (n *Node) AppendTranslation(v math.Vec3) {
	n.transform.Translate(v)
}

// LocalTransformation returns a copy of the local pose.
func (n *Node) LocalTransformation() math.Transform {
	t := *n.transform
	t.Parent = nil
	return t
}

// World returns the model matrix of the node.
func (n *Node) World() math.Mat4 {
	return n.transform.GetWorld()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
