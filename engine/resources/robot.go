package resources

// DefaultColor is applied to visuals that carry no color and reference no
// known material.
var DefaultColor = RGBA{0.5, 0.5, 0.5, 1.0}

type RGBA [4]float64

// Robot is the parsed robot description. It is not modified after loading.
type Robot struct {
	Name      string
	Links     []Link
	Joints    []Joint
	Materials map[string]Material
}

// Link is a rigid body segment. Names are unique within a Robot.
type Link struct {
	Name   string
	Visual Visual
}

type Visual struct {
	Origin   Pose
	Geometry Geometry
	Material Material
}

type Material struct {
	Name  string
	Color RGBA
}

type Pose struct {
	XYZ [3]float64
	RPY [3]float64
}

// GeometryType tags the concrete Geometry variant.
type GeometryType int

const (
	GeometryTypeBox GeometryType = iota
	GeometryTypeCylinder
	GeometryTypeSphere
	GeometryTypeMesh
)

func (g GeometryType) String() string {
	switch g {
	case GeometryTypeBox:
		return "box"
	case GeometryTypeCylinder:
		return "cylinder"
	case GeometryTypeSphere:
		return "sphere"
	case GeometryTypeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Geometry is one of *Box, *Cylinder, *Sphere or *Mesh.
type Geometry interface {
	Type() GeometryType
}

type Box struct {
	Size [3]float64
}

type Cylinder struct {
	Radius float64
	Length float64
}

type Sphere struct {
	Radius float64
}

// Mesh references an external mesh file, either relative to the description
// or through a package:// URI.
type Mesh struct {
	Filename string
	Scale    [3]float64
}

func (*Box) Type() GeometryType      { return GeometryTypeBox }
func (*Cylinder) Type() GeometryType { return GeometryTypeCylinder }
func (*Sphere) Type() GeometryType   { return GeometryTypeSphere }
func (*Mesh) Type() GeometryType     { return GeometryTypeMesh }

type JointType string

const (
	JointRevolute   JointType = "revolute"
	JointContinuous JointType = "continuous"
	JointPrismatic  JointType = "prismatic"
	JointFixed      JointType = "fixed"
	JointFloating   JointType = "floating"
	JointPlanar     JointType = "planar"
)

// Movable reports whether the solver drives this joint type.
func (j JointType) Movable() bool {
	return j == JointRevolute || j == JointContinuous || j == JointPrismatic
}

type Limit struct {
	Lower float64
	Upper float64
}

type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	Origin Pose
	Axis   [3]float64
	Limit  Limit
}

// Link returns the link with the given name.
func (r *Robot) Link(name string) (*Link, bool) {
	for i := range r.Links {
		if r.Links[i].Name == name {
			return &r.Links[i], true
		}
	}
	return nil, false
}
