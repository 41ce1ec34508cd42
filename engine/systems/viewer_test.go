package systems

import (
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSkipsBrokenLinks(t *testing.T) {
	v, window, _ := newReadyViewer(t)

	assert.Equal(t, ViewerStageReady, v.Stage)
	assert.Equal(t, []string{"ball", "base", "local", "packaged", "shaft"}, v.Names())
	_, ok := v.Node("missing")
	assert.False(t, ok)
	_, ok = v.Node("unknown_pkg")
	assert.False(t, ok)
	assert.Len(t, window.Scene().Root().Children(), 5)
	assert.Equal(t, math.NewVec3(0, 0, 0.3), window.Background())

	assert.ErrorIs(t, v.Setup("/"), core.ErrAlreadySetup)
}

func TestSetupWithJobs(t *testing.T) {
	f := newFixture(t)
	jobs, err := NewJobSystem(2, 0)
	require.NoError(t, err)
	defer jobs.Shutdown()

	v := NewViewer(renderer.NewHeadless(-1), sampleRobot(), f.builder)
	v.UseJobs(jobs)
	require.NoError(t, v.Setup(f.baseDir))
	assert.Len(t, v.Names(), 5)
	assert.Equal(t, uint64(1), f.cache.References(f.baseDir+"/mesh/part.obj"))
}

func TestUpdateAppliesByIndex(t *testing.T) {
	v, _, _ := newReadyViewer(t)

	names := []string{"base", "nobody", "ball"}
	transforms := []math.Transform{
		*math.TransformFromPosition(math.NewVec3(1, 0, 0)),
		*math.TransformFromPosition(math.NewVec3(2, 0, 0)),
		*math.TransformFromPosition(math.NewVec3(3, 0, 0)),
	}
	v.Update(names, transforms)

	base, _ := v.Node("base")
	ball, _ := v.Node("ball")
	assert.Equal(t, math.NewVec3(1, 0, 0), base.LocalTransformation().Position)
	assert.Equal(t, math.NewVec3(3, 0, 0), ball.LocalTransformation().Position)
}

func TestUpdateLengthMismatchUsesShorter(t *testing.T) {
	v, _, _ := newReadyViewer(t)

	v.Update([]string{"base", "ball"}, []math.Transform{*math.TransformFromPosition(math.NewVec3(1, 0, 0))})
	base, _ := v.Node("base")
	ball, _ := v.Node("ball")
	assert.Equal(t, math.NewVec3(1, 0, 0), base.LocalTransformation().Position)
	assert.Equal(t, math.NewVec3Zero(), ball.LocalTransformation().Position)

	v.Update([]string{"shaft"}, []math.Transform{
		*math.TransformFromPosition(math.NewVec3(0, 1, 0)),
		*math.TransformFromPosition(math.NewVec3(0, 2, 0)),
	})
	shaft, _ := v.Node("shaft")
	assert.Equal(t, math.NewVec3(0, 1, 0), shaft.LocalTransformation().Position)
}

func TestUpdateByName(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	v.UpdateByName(map[string]math.Transform{
		"shaft":  *math.TransformFromPosition(math.NewVec3(0, 0, 2)),
		"nobody": *math.TransformFromPosition(math.NewVec3(0, 0, 9)),
	})
	shaft, _ := v.Node("shaft")
	assert.Equal(t, math.NewVec3(0, 0, 2), shaft.LocalTransformation().Position)
}

func TestTemporalColorFirstSetWins(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	original := colorOf(t, v, "base")
	assert.Equal(t, math.NewVec3(1, 0, 0), original)

	v.SetTemporalColor("base", 0, 1, 0)
	assert.Equal(t, math.NewVec3(0, 1, 0), colorOf(t, v, "base"))
	v.SetTemporalColor("base", 0, 0, 1)
	assert.Equal(t, math.NewVec3(0, 0, 1), colorOf(t, v, "base"))

	v.ResetTemporalColor("base")
	assert.Equal(t, original, colorOf(t, v, "base"))

	// the record survives a reset
	v.SetTemporalColor("base", 1, 1, 1)
	v.ResetTemporalColor("base")
	assert.Equal(t, original, colorOf(t, v, "base"))
}

func TestTemporalColorIdempotent(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	v.SetTemporalColor("ball", 1, 0, 0)
	v.SetTemporalColor("ball", 1, 0, 0)
	v.ResetTemporalColor("ball")
	assert.Equal(t, math.NewVec3(0.5, 0.5, 0.5), colorOf(t, v, "ball"))
}

func TestResetWithoutOverrideIsNoop(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	before := colorOf(t, v, "shaft")
	v.ResetTemporalColor("shaft")
	v.ResetTemporalColor("nobody")
	v.SetTemporalColor("nobody", 1, 0, 0)
	assert.Equal(t, before, colorOf(t, v, "shaft"))
}

func TestAxisIndicator(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	group := v.AddAxisIndicator("base", 0.4)

	n, ok := v.Node("base")
	require.True(t, ok)
	assert.Same(t, group, n)

	children := group.Children()
	require.Len(t, children, 3)
	colors := []math.Vec3{{Z: 1}, {Y: 1}, {X: 1}}
	offsets := []math.Vec3{{Z: 0.2}, {Y: 0.2}, {X: 0.2}}
	for i, c := range children {
		assert.Equal(t, scene.NodeKindCylinder, c.Kind())
		assert.Equal(t, AxisRadius, c.Shape().Radius)
		assert.Equal(t, float32(0.4), c.Shape().Height)
		assert.Equal(t, colors[i], c.Color())
		assert.True(t, c.LocalTransformation().Position.Compare(offsets[i], 1e-6))
	}
}

func TestTemporalColorRestoresSubtree(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	group := v.AddAxisIndicator("origin", 0.4)

	v.SetTemporalColor("origin", 1, 1, 0)
	for _, c := range group.Children() {
		assert.Equal(t, math.NewVec3(1, 1, 0), c.Color())
	}

	v.ResetTemporalColor("origin")
	colors := []math.Vec3{{Z: 1}, {Y: 1}, {X: 1}}
	for i, c := range group.Children() {
		assert.Equal(t, colors[i], c.Color(), "axis %d", i)
	}
	assert.Equal(t, scene.DefaultColor, group.Color())
}

func TestAxisIndicatorDropsStaleColorRecord(t *testing.T) {
	v, _, _ := newReadyViewer(t)
	v.SetTemporalColor("base", 0, 1, 0)
	group := v.AddAxisIndicator("base", 0.4)

	v.SetTemporalColor("base", 1, 1, 0)
	v.ResetTemporalColor("base")
	assert.Equal(t, math.NewVec3(0, 0, 1), group.Children()[0].Color())
}

func TestTeardownReleasesMeshes(t *testing.T) {
	v, window, f := newReadyViewer(t)
	v.AddAxisIndicator("origin", 0.4)
	require.Equal(t, 2, f.cache.Len())

	v.Teardown()
	assert.Equal(t, ViewerStageUninitialized, v.Stage)
	assert.Empty(t, v.Names())
	assert.Equal(t, 0, f.cache.Len())
	assert.Empty(t, window.Scene().Root().Children())

	require.NoError(t, v.Setup(f.baseDir))
	assert.Equal(t, 2, f.cache.Len())
	assert.Equal(t, uint64(1), f.cache.References(filepath.Join(f.baseDir, "mesh", "part.obj")))
}

func TestViewerDelegatesToWindow(t *testing.T) {
	v, window, _ := newReadyViewer(t)
	window.Inject(core.KeyPressed(core.KEY_TAB))
	v.DrawText("sample", 20, math.NewVec2(5, 5), math.NewVec3(1, 1, 1))

	require.True(t, v.Render())
	assert.Len(t, window.Texts(), 1)
	events := v.Events()
	require.Len(t, events, 1)
	assert.Equal(t, core.KEY_TAB, events[0].Key)
	assert.Equal(t, 2, window.Stats().Triangles)
}
