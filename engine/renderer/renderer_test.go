package renderer

import (
	"testing"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessFrameBudget(t *testing.T) {
	h := NewHeadless(2)
	assert.True(t, h.Render())
	assert.True(t, h.Render())
	assert.False(t, h.Render())
	assert.Equal(t, 2, h.Frames())
}

func TestHeadlessUnlimitedUntilClosed(t *testing.T) {
	h := NewHeadless(-1)
	for i := 0; i < 10; i++ {
		require.True(t, h.Render())
	}
	require.NoError(t, h.Close())
	assert.False(t, h.Render())
	assert.Error(t, h.Close())
}

func TestHeadlessEventsAndText(t *testing.T) {
	h := NewHeadless(-1)
	h.Inject(core.KeyPressed(core.KEY_TAB))
	h.DrawText("hello", 20, math.NewVec2(10, 10), math.NewVec3(1, 1, 1))
	assert.Empty(t, h.PollEvents())

	h.Render()
	events := h.PollEvents()
	require.Len(t, events, 1)
	assert.Equal(t, core.KEY_TAB, events[0].Key)
	assert.Empty(t, h.PollEvents())
	require.Len(t, h.Texts(), 1)
	assert.Equal(t, "hello", h.Texts()[0].Text)

	h.Render()
	assert.Empty(t, h.Texts())
}

func TestCollectSkipsHiddenSubtrees(t *testing.T) {
	h := NewHeadless(-1)
	mesh := scene.NewMesh("tri", []math.Vec3{{}, {X: 1}, {Y: 1}}, [][3]uint32{{0, 1, 2}})

	visible := h.Scene().AddGroup()
	visible.AddMesh(mesh, math.NewVec3One())
	hidden := h.Scene().AddGroup()
	hidden.AddMesh(mesh, math.NewVec3One())
	hidden.SetVisible(false)

	h.Render()
	assert.Equal(t, FrameStats{Nodes: 2, Triangles: 1}, h.Stats())
}
