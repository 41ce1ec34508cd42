package resources

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/spaghettifunk/urdfviz/engine/core"
)

// ParseFile reads a URDF document from disk.
func ParseFile(path string) (*Robot, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	robot, err := parseDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return robot, nil
}

// Parse reads a URDF document from r.
func Parse(r io.Reader) (*Robot, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) (*Robot, error) {
	root := doc.SelectElement("robot")
	if root == nil {
		return nil, fmt.Errorf("missing <robot> element")
	}

	robot := &Robot{
		Name:      root.SelectAttrValue("name", ""),
		Materials: map[string]Material{},
	}

	for _, el := range root.SelectElements("material") {
		m, err := parseMaterial(el)
		if err != nil {
			return nil, err
		}
		if m.Name != "" {
			robot.Materials[m.Name] = m
		}
	}

	seen := map[string]bool{}
	for _, el := range root.SelectElements("link") {
		link, err := parseLink(el, robot.Materials)
		if err != nil {
			return nil, err
		}
		if seen[link.Name] {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateLink, link.Name)
		}
		seen[link.Name] = true
		robot.Links = append(robot.Links, link)
	}

	for _, el := range root.SelectElements("joint") {
		joint, err := parseJoint(el)
		if err != nil {
			return nil, err
		}
		robot.Joints = append(robot.Joints, joint)
	}

	return robot, nil
}

func parseLink(el *etree.Element, materials map[string]Material) (Link, error) {
	link := Link{Name: el.SelectAttrValue("name", "")}
	if link.Name == "" {
		return link, fmt.Errorf("link without a name")
	}

	link.Visual.Material = Material{Color: DefaultColor}

	// only the first visual is rendered
	visual := el.SelectElement("visual")
	if visual == nil {
		return link, nil
	}

	if origin := visual.SelectElement("origin"); origin != nil {
		pose, err := parsePose(origin)
		if err != nil {
			return link, fmt.Errorf("link %q: %w", link.Name, err)
		}
		link.Visual.Origin = pose
	}

	if geom := visual.SelectElement("geometry"); geom != nil {
		g, err := parseGeometry(geom)
		if err != nil {
			return link, fmt.Errorf("link %q: %w", link.Name, err)
		}
		link.Visual.Geometry = g
	}

	if mat := visual.SelectElement("material"); mat != nil {
		m, err := parseMaterial(mat)
		if err != nil {
			return link, fmt.Errorf("link %q: %w", link.Name, err)
		}
		if mat.SelectElement("color") == nil {
			if named, ok := materials[m.Name]; ok {
				m.Color = named.Color
			} else {
				m.Color = DefaultColor
			}
		}
		link.Visual.Material = m
	}

	return link, nil
}

func parseGeometry(el *etree.Element) (Geometry, error) {
	if box := el.SelectElement("box"); box != nil {
		size, err := parseVec3(box.SelectAttrValue("size", "0 0 0"))
		if err != nil {
			return nil, fmt.Errorf("box size: %w", err)
		}
		return &Box{Size: size}, nil
	}
	if cyl := el.SelectElement("cylinder"); cyl != nil {
		radius, err := parseFloat(cyl.SelectAttrValue("radius", "0"))
		if err != nil {
			return nil, fmt.Errorf("cylinder radius: %w", err)
		}
		length, err := parseFloat(cyl.SelectAttrValue("length", "0"))
		if err != nil {
			return nil, fmt.Errorf("cylinder length: %w", err)
		}
		return &Cylinder{Radius: radius, Length: length}, nil
	}
	if sphere := el.SelectElement("sphere"); sphere != nil {
		radius, err := parseFloat(sphere.SelectAttrValue("radius", "0"))
		if err != nil {
			return nil, fmt.Errorf("sphere radius: %w", err)
		}
		return &Sphere{Radius: radius}, nil
	}
	if mesh := el.SelectElement("mesh"); mesh != nil {
		scale, err := parseVec3(mesh.SelectAttrValue("scale", "1 1 1"))
		if err != nil {
			return nil, fmt.Errorf("mesh scale: %w", err)
		}
		return &Mesh{Filename: mesh.SelectAttrValue("filename", ""), Scale: scale}, nil
	}
	return nil, fmt.Errorf("geometry without a known shape")
}

func parseMaterial(el *etree.Element) (Material, error) {
	m := Material{Name: el.SelectAttrValue("name", "")}
	if color := el.SelectElement("color"); color != nil {
		fields := strings.Fields(color.SelectAttrValue("rgba", "0 0 0 0"))
		if len(fields) != 4 {
			return m, fmt.Errorf("material %q: rgba needs 4 values, got %d", m.Name, len(fields))
		}
		for i, f := range fields {
			v, err := parseFloat(f)
			if err != nil {
				return m, fmt.Errorf("material %q: %w", m.Name, err)
			}
			m.Color[i] = v
		}
	}
	return m, nil
}

func parseJoint(el *etree.Element) (Joint, error) {
	j := Joint{
		Name: el.SelectAttrValue("name", ""),
		Type: JointType(el.SelectAttrValue("type", string(JointFixed))),
		Axis: [3]float64{1, 0, 0},
	}
	if p := el.SelectElement("parent"); p != nil {
		j.Parent = p.SelectAttrValue("link", "")
	}
	if c := el.SelectElement("child"); c != nil {
		j.Child = c.SelectAttrValue("link", "")
	}
	if j.Parent == "" || j.Child == "" {
		return j, fmt.Errorf("joint %q: parent and child links are required", j.Name)
	}
	if origin := el.SelectElement("origin"); origin != nil {
		pose, err := parsePose(origin)
		if err != nil {
			return j, fmt.Errorf("joint %q: %w", j.Name, err)
		}
		j.Origin = pose
	}
	if axis := el.SelectElement("axis"); axis != nil {
		v, err := parseVec3(axis.SelectAttrValue("xyz", "1 0 0"))
		if err != nil {
			return j, fmt.Errorf("joint %q axis: %w", j.Name, err)
		}
		j.Axis = v
	}
	if limit := el.SelectElement("limit"); limit != nil {
		lower, err := parseFloat(limit.SelectAttrValue("lower", "0"))
		if err != nil {
			return j, fmt.Errorf("joint %q lower limit: %w", j.Name, err)
		}
		upper, err := parseFloat(limit.SelectAttrValue("upper", "0"))
		if err != nil {
			return j, fmt.Errorf("joint %q upper limit: %w", j.Name, err)
		}
		j.Limit = Limit{Lower: lower, Upper: upper}
	}
	return j, nil
}

func parsePose(el *etree.Element) (Pose, error) {
	var p Pose
	xyz, err := parseVec3(el.SelectAttrValue("xyz", "0 0 0"))
	if err != nil {
		return p, fmt.Errorf("origin xyz: %w", err)
	}
	rpy, err := parseVec3(el.SelectAttrValue("rpy", "0 0 0"))
	if err != nil {
		return p, fmt.Errorf("origin rpy: %w", err)
	}
	p.XYZ = xyz
	p.RPY = rpy
	return p, nil
}

func parseVec3(s string) ([3]float64, error) {
	var out [3]float64
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, fmt.Errorf("expected 3 values, got %q", s)
	}
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
