package renderer

import (
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

// Window owns a scene graph and presents it once per Render call.
type Window interface {
	Scene() *scene.Graph
	SetBackgroundColor(r, g, b float32)
	// Render draws one frame and reports whether the window is still open.
	Render() bool
	// DrawText queues an overlay string for the next frame.
	DrawText(text string, size float32, pos math.Vec2, color math.Vec3)
	// PollEvents returns the input events gathered during the last frame.
	PollEvents() []core.Event
	Close() error
}

// TextCommand is one queued overlay string.
type TextCommand struct {
	Text  string
	Size  float32
	Pos   math.Vec2
	Color math.Vec3
}

// FrameStats describes what the last frame would have drawn.
type FrameStats struct {
	Nodes     int
	Triangles int
}

// Collect walks the visible part of g.
func Collect(g *scene.Graph) FrameStats {
	var stats FrameStats
	g.Root().Walk(func(n *scene.Node) bool {
		if !n.Visible() {
			return false
		}
		if n == g.Root() {
			return true
		}
		stats.Nodes++
		if m := n.Mesh(); m != nil {
			stats.Triangles += m.TriangleCount()
		}
		return true
	})
	return stats
}
