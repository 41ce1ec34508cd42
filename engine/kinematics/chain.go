package kinematics

import (
	"fmt"

	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/resources"
)

type joint struct {
	name     string
	kind     resources.JointType
	origin   *math.Transform
	axis     math.Vec3
	lower    float32
	upper    float32
	position float32
	child    *link
}

type link struct {
	name     string
	children []*joint
}

// Chain computes world poses of every link from joint positions.
type Chain struct {
	roots    []*link
	joints   map[string]*joint
	order    []*link
	movable  []*joint
	dofLimit int
	elapsed  float32
}

// NewChain builds the kinematic tree of robot. Links that are never the
// child of a joint become roots. Only the first dofLimit movable joints are
// swept by Step; a negative limit drives all of them.
func NewChain(robot *resources.Robot, dofLimit int) (*Chain, error) {
	links := make(map[string]*link, len(robot.Links))
	for _, l := range robot.Links {
		links[l.Name] = &link{name: l.Name}
	}

	c := &Chain{
		joints:   map[string]*joint{},
		dofLimit: dofLimit,
	}

	isChild := map[string]bool{}
	for _, j := range robot.Joints {
		parent, ok := links[j.Parent]
		if !ok {
			return nil, fmt.Errorf("joint %s: unknown parent link %s", j.Name, j.Parent)
		}
		child, ok := links[j.Child]
		if !ok {
			return nil, fmt.Errorf("joint %s: unknown child link %s", j.Name, j.Child)
		}
		if isChild[j.Child] {
			return nil, fmt.Errorf("link %s has more than one parent joint", j.Child)
		}
		isChild[j.Child] = true

		jt := &joint{
			name: j.Name,
			kind: j.Type,
			origin: math.TransformFromPositionRotation(
				math.NewVec3FromFloat64(j.Origin.XYZ),
				math.NewQuatFromRPY(float32(j.Origin.RPY[0]), float32(j.Origin.RPY[1]), float32(j.Origin.RPY[2])),
			),
			axis:  math.NewVec3FromFloat64(j.Axis).Normalize(),
			lower: float32(j.Limit.Lower),
			upper: float32(j.Limit.Upper),
			child: child,
		}
		parent.children = append(parent.children, jt)
		c.joints[j.Name] = jt
	}

	for _, l := range robot.Links {
		if !isChild[l.Name] {
			c.roots = append(c.roots, links[l.Name])
		}
	}

	visited := map[*link]bool{}
	var walk func(l *link) error
	walk = func(l *link) error {
		if visited[l] {
			return fmt.Errorf("kinematic loop through link %s", l.name)
		}
		visited[l] = true
		c.order = append(c.order, l)
		for _, j := range l.children {
			if j.kind.Movable() {
				c.movable = append(c.movable, j)
			}
			if err := walk(j.child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range c.roots {
		if err := walk(r); err != nil {
			return nil, err
		}
	}
	if len(c.order) != len(links) {
		return nil, fmt.Errorf("kinematic loop: %d of %d links reachable from a root", len(c.order), len(links))
	}
	return c, nil
}

// LinkNames returns link names in the same order as LinkTransforms.
func (c *Chain) LinkNames() []string {
	names := make([]string, 0, len(c.order))
	for _, l := range c.order {
		names = append(names, l.name)
	}
	return names
}

// LinkTransforms returns the world pose of every link, depth first from the
// roots. Roots sit at the origin.
func (c *Chain) LinkTransforms() []math.Transform {
	out := make([]math.Transform, 0, len(c.order))
	var walk func(l *link, world *math.Transform)
	walk = func(l *link, world *math.Transform) {
		out = append(out, *world)
		for _, j := range l.children {
			walk(j.child, world.Compose(j.origin).Compose(j.motion()))
		}
	}
	for _, r := range c.roots {
		walk(r, math.TransformCreate())
	}
	return out
}

// DOF is the number of joints Step drives.
func (c *Chain) DOF() int {
	if c.dofLimit < 0 || c.dofLimit > len(c.movable) {
		return len(c.movable)
	}
	return c.dofLimit
}

// JointNames returns the names of the driven joints.
func (c *Chain) JointNames() []string {
	names := make([]string, 0, c.DOF())
	for _, j := range c.movable[:c.DOF()] {
		names = append(names, j.name)
	}
	return names
}

// SetJointPosition sets the position of a movable joint, clamped to its
// limits when it has any.
func (c *Chain) SetJointPosition(name string, position float32) error {
	j, ok := c.joints[name]
	if !ok {
		return fmt.Errorf("unknown joint %s", name)
	}
	if !j.kind.Movable() {
		return fmt.Errorf("joint %s is %s", name, j.kind)
	}
	j.position = j.clamp(position)
	return nil
}

// JointPosition returns the current position of a joint.
func (c *Chain) JointPosition(name string) (float32, bool) {
	j, ok := c.joints[name]
	if !ok {
		return 0, false
	}
	return j.position, true
}

// Step advances the demo motion by dt seconds: every driven joint follows a
// sine wave across its range.
func (c *Chain) Step(dt float64) {
	c.elapsed += float32(dt)
	for i, j := range c.movable[:c.DOF()] {
		lower, upper := j.sweepRange()
		mid := (lower + upper) / 2
		amplitude := (upper - lower) / 2
		j.position = mid + amplitude*math.Sin(c.elapsed+float32(i)*0.5)
	}
}

func (j *joint) hasLimits() bool {
	return j.kind != resources.JointContinuous && j.upper > j.lower
}

func (j *joint) clamp(position float32) float32 {
	if !j.hasLimits() {
		return position
	}
	return math.Clamp(position, j.lower, j.upper)
}

func (j *joint) sweepRange() (float32, float32) {
	if j.hasLimits() {
		return j.lower, j.upper
	}
	return -1, 1
}

func (j *joint) motion() *math.Transform {
	switch j.kind {
	case resources.JointRevolute, resources.JointContinuous:
		return math.TransformFromRotation(math.NewQuatFromAxisAngle(j.axis, j.position, true))
	case resources.JointPrismatic:
		return math.TransformFromPosition(j.axis.MulScalar(j.position))
	default:
		return math.TransformCreate()
	}
}
