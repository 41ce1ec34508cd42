package systems

import (
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

type ViewerStage uint8

const (
	ViewerStageUninitialized ViewerStage = iota
	ViewerStageReady
)

// AxisRadius is the radius of the cylinders of an axis indicator.
const AxisRadius float32 = 0.01

// Viewer owns the window and maps link names to their scene nodes.
type Viewer struct {
	Stage      ViewerStage
	Background math.Vec3

	window  renderer.Window
	robot   *resources.Robot
	builder *GeometryBuilder
	jobs    *JobSystem

	scenes         map[string]*scene.Node
	originalColors map[string]map[uuid.UUID]math.Vec3
}

func NewViewer(window renderer.Window, robot *resources.Robot, builder *GeometryBuilder) *Viewer {
	return &Viewer{
		Stage:          ViewerStageUninitialized,
		Background:     math.NewVec3(0, 0, 0.3),
		window:         window,
		robot:          robot,
		builder:        builder,
		scenes:         map[string]*scene.Node{},
		originalColors: map[string]map[uuid.UUID]math.Vec3{},
	}
}

// UseJobs makes Setup load mesh files in parallel before building.
func (v *Viewer) UseJobs(jobs *JobSystem) {
	v.jobs = jobs
}

// Setup builds one node per link. Links whose geometry cannot be built are
// logged and left out of the map.
func (v *Viewer) Setup(baseDir string) error {
	if v.Stage != ViewerStageUninitialized {
		return core.ErrAlreadySetup
	}
	v.window.SetBackgroundColor(v.Background.X, v.Background.Y, v.Background.Z)

	if v.jobs != nil {
		n := v.builder.Prefetch(v.robot, baseDir, v.jobs)
		core.LogDebug("prefetched %d mesh files", n)
	}

	root := v.window.Scene().Root()
	for _, l := range v.robot.Links {
		node, ok := v.builder.Build(root, l.Name, l.Visual, baseDir)
		if !ok {
			continue
		}
		v.scenes[l.Name] = node
	}
	core.LogInfo("built %d of %d links of %s", len(v.scenes), len(v.robot.Links), v.robot.Name)

	v.Stage = ViewerStageReady
	return nil
}

// Teardown drops every registered node from the scene and releases the
// meshes they reference. The viewer can be set up again afterwards.
func (v *Viewer) Teardown() {
	for name, node := range v.scenes {
		if v.builder != nil {
			v.builder.Drop(node)
		} else {
			node.Unlink()
		}
		delete(v.scenes, name)
	}
	clear(v.originalColors)
	v.Stage = ViewerStageUninitialized
}

// AddAxisIndicator adds three thin colored cylinders of the given length
// under name, replacing whatever node had that name.
func (v *Viewer) AddAxisIndicator(name string, size float32) *scene.Node {
	group := v.window.Scene().AddGroup()

	x := group.AddCylinder(AxisRadius, size)
	x.SetColor(0, 0, 1)
	y := group.AddCylinder(AxisRadius, size)
	y.SetColor(0, 1, 0)
	z := group.AddCylinder(AxisRadius, size)
	z.SetColor(1, 0, 0)

	x.AppendTranslation(math.NewVec3(0, 0, size*0.5))
	y.AppendTranslation(math.NewVec3(0, size*0.5, 0))
	z.AppendTranslation(math.NewVec3(size*0.5, 0, 0))
	x.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3UnitX(), 1.57, true))
	y.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3UnitY(), 1.57, true))
	z.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3UnitZ(), 1.57, true))

	if _, ok := v.scenes[name]; ok {
		core.LogDebug("axis indicator replaces the node of %s", name)
		delete(v.originalColors, name)
	}
	v.scenes[name] = group
	return group
}

func (v *Viewer) Node(name string) (*scene.Node, bool) {
	n, ok := v.scenes[name]
	return n, ok
}

// Names returns the registered names in sorted order.
func (v *Viewer) Names() []string {
	names := make([]string, 0, len(v.scenes))
	for name := range v.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *Viewer) Robot() *resources.Robot { return v.robot }

// Update applies transforms[i] to the node named names[i].
func (v *Viewer) Update(names []string, transforms []math.Transform) {
	n := len(names)
	if len(transforms) != n {
		core.LogWarn("update got %d names and %d transforms", len(names), len(transforms))
		if len(transforms) < n {
			n = len(transforms)
		}
	}
	for i := 0; i < n; i++ {
		v.apply(names[i], transforms[i])
	}
}

// UpdateByName applies every transform to the node of the same name.
func (v *Viewer) UpdateByName(transforms map[string]math.Transform) {
	for name, t := range transforms {
		v.apply(name, t)
	}
}

func (v *Viewer) apply(name string, t math.Transform) {
	node, ok := v.scenes[name]
	if !ok {
		core.LogInfo("%s not found", name)
		return
	}
	node.SetLocalTransformation(t)
}

// SetTemporalColor recolors a node and its subtree, remembering the colors
// they had before the first override.
func (v *Viewer) SetTemporalColor(name string, r, g, b float32) {
	node, ok := v.scenes[name]
	if !ok {
		core.LogInfo("%s not found", name)
		return
	}
	if _, recorded := v.originalColors[name]; !recorded {
		v.originalColors[name] = node.Colors()
	}
	node.SetColor(r, g, b)
}

// ResetTemporalColor restores the color recorded by SetTemporalColor.
func (v *Viewer) ResetTemporalColor(name string) {
	colors, ok := v.originalColors[name]
	if !ok {
		return
	}
	if node, ok := v.scenes[name]; ok {
		node.RestoreColors(colors)
	}
}

func (v *Viewer) Render() bool {
	return v.window.Render()
}

func (v *Viewer) DrawText(text string, size float32, pos math.Vec2, color math.Vec3) {
	v.window.DrawText(text, size, pos, color)
}

func (v *Viewer) Events() []core.Event {
	return v.window.PollEvents()
}
