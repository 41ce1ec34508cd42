package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spaghettifunk/urdfviz/engine/assets"
	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolver struct {
	steps  []float64
	names  []string
	offset float32
}

func (s *fakeSolver) Step(dt float64) {
	s.steps = append(s.steps, dt)
	s.offset += float32(dt)
}

func (s *fakeSolver) LinkNames() []string { return s.names }

func (s *fakeSolver) LinkTransforms() []math.Transform {
	out := make([]math.Transform, len(s.names))
	for i := range s.names {
		out[i] = *math.TransformFromPosition(math.NewVec3(s.offset, float32(i), 0))
	}
	return out
}

type fakeSource struct {
	events []core.Event
}

func (f *fakeSource) Poll() []core.Event {
	e := f.events
	f.events = nil
	return e
}

func box() resources.Visual {
	return resources.Visual{
		Geometry: &resources.Box{Size: [3]float64{1, 1, 1}},
		Material: resources.Material{Color: resources.DefaultColor},
	}
}

func newEngine(t *testing.T, frames int) (*Engine, *renderer.Headless, *systems.Viewer, *fakeSolver) {
	t.Helper()
	robot := &resources.Robot{
		Name:  "pair",
		Links: []resources.Link{{Name: "a", Visual: box()}, {Name: "b", Visual: box()}},
	}
	builder := systems.NewGeometryBuilder(
		assets.NewResolver(assets.StaticLocator{}),
		loaders.NewMeshCache(loaders.NewMeshLoader()),
	)
	window := renderer.NewHeadless(frames)
	viewer := systems.NewViewer(window, robot, builder)
	require.NoError(t, viewer.Setup(t.TempDir()))

	solver := &fakeSolver{names: []string{"a", "b", "c"}}
	config := DefaultApplicationConfig(robot.Name)
	config.FixedDelta = 0.5
	return New(config, viewer, solver), window, viewer, solver
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	e, window, viewer, solver := newEngine(t, 3)
	require.NoError(t, e.Run(context.Background()))

	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, 3, window.Frames())
	assert.Equal(t, EngineStageStopped, e.Stage())
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, solver.steps)

	b, _ := viewer.Node("b")
	assert.Equal(t, math.NewVec3(2, 1, 0), b.LocalTransformation().Position)
}

func TestRunRequiresSetup(t *testing.T) {
	viewer := systems.NewViewer(renderer.NewHeadless(1), &resources.Robot{}, nil)
	e := New(DefaultApplicationConfig("x"), viewer, &fakeSolver{})
	assert.ErrorIs(t, e.Run(context.Background()), core.ErrNotReady)
}

func TestRunHonoursContext(t *testing.T) {
	e, _, _, _ := newEngine(t, -1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	assert.Equal(t, uint64(0), e.Frames())
}

func TestShutdownStopsLoop(t *testing.T) {
	e, _, _, _ := newEngine(t, -1)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	require.Eventually(t, func() bool { return e.Frames() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, e.Shutdown())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("render loop did not stop")
	}
}

func TestTabCyclesHighlight(t *testing.T) {
	e, _, viewer, _ := newEngine(t, -1)
	gray := math.NewVec3(0.5, 0.5, 0.5)
	red := math.NewVec3(1, 0, 0)

	e.onKey(core.KEY_TAB)
	name, ok := e.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	a, _ := viewer.Node("a")
	b, _ := viewer.Node("b")
	assert.Equal(t, red, a.Color())

	e.onKey(core.KEY_TAB)
	assert.Equal(t, gray, a.Color())
	assert.Equal(t, red, b.Color())

	e.onKey(core.KEY_TAB)
	name, _ = e.Highlighted()
	assert.Equal(t, "a", name)
	assert.Equal(t, gray, b.Color())

	e.onKey(core.KEY_ESCAPE)
	_, ok = e.Highlighted()
	assert.False(t, ok)
	assert.Equal(t, gray, a.Color())
}

func TestTabCyclesPastAxisIndicator(t *testing.T) {
	e, _, viewer, _ := newEngine(t, -1)
	axes := viewer.AddAxisIndicator("origin", 0.4)
	require.Equal(t, []string{"a", "b", "origin"}, viewer.Names())

	for i := 0; i < 3; i++ {
		e.onKey(core.KEY_TAB)
	}
	name, _ := e.Highlighted()
	require.Equal(t, "origin", name)
	for _, c := range axes.Children() {
		assert.Equal(t, math.NewVec3(1, 0, 0), c.Color())
	}

	e.onKey(core.KEY_TAB)
	colors := []math.Vec3{{Z: 1}, {Y: 1}, {X: 1}}
	for i, c := range axes.Children() {
		assert.Equal(t, colors[i], c.Color(), "axis %d", i)
	}
}

func TestOverlayAndEvents(t *testing.T) {
	e, window, _, solver := newEngine(t, 3)
	src := &fakeSource{events: []core.Event{{Code: core.EVENT_CODE_DESCRIPTION_CHANGED, Path: "/r/robot.urdf"}}}
	e.AddEventSource(src)
	window.Inject(core.KeyPressed(core.KEY_TAB))
	window.Inject(core.KeyPressed(core.KEY_SPACE))

	require.NoError(t, e.Run(context.Background()))

	var texts []string
	for _, tc := range window.Texts() {
		texts = append(texts, tc.Text)
	}
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "pair")
	assert.Contains(t, joined, "fps")
	assert.Contains(t, joined, "selected: a")
	assert.Contains(t, joined, "paused")
	assert.Contains(t, joined, "/r/robot.urdf changed on disk")

	// paused from the second frame on
	assert.Len(t, solver.steps, 1)
}
