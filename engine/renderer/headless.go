package renderer

import (
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

// Headless renders nothing. It keeps the scene graph, counts frames and
// replays injected events, which is enough for smoke runs and tests.
type Headless struct {
	graph      *scene.Graph
	background math.Vec3
	remaining  int
	frames     int
	closed     bool

	pending []core.Event
	events  []core.Event
	queued  []TextCommand
	texts   []TextCommand
	stats   FrameStats
}

// NewHeadless returns a window that stays open for frames calls to Render.
// A negative count never closes on its own.
func NewHeadless(frames int) *Headless {
	return &Headless{
		graph:     scene.NewGraph(),
		remaining: frames,
	}
}

func (h *Headless) Scene() *scene.Graph { return h.graph }

func (h *Headless) SetBackgroundColor(r, g, b float32) {
	h.background = math.NewVec3(r, g, b)
}

func (h *Headless) Background() math.Vec3 { return h.background }

func (h *Headless) Render() bool {
	if h.closed || h.remaining == 0 {
		return false
	}
	if h.remaining > 0 {
		h.remaining--
	}
	h.frames++
	h.stats = Collect(h.graph)
	h.texts, h.queued = h.queued, nil
	h.events, h.pending = h.pending, nil
	return true
}

func (h *Headless) DrawText(text string, size float32, pos math.Vec2, color math.Vec3) {
	h.queued = append(h.queued, TextCommand{Text: text, Size: size, Pos: pos, Color: color})
}

func (h *Headless) PollEvents() []core.Event {
	events := h.events
	h.events = nil
	return events
}

// Inject queues an event that PollEvents reports after the next Render.
func (h *Headless) Inject(e core.Event) {
	h.pending = append(h.pending, e)
}

// Frames is the number of frames rendered so far.
func (h *Headless) Frames() int { return h.frames }

// Texts returns the overlay drawn in the last frame.
func (h *Headless) Texts() []TextCommand { return h.texts }

func (h *Headless) Stats() FrameStats { return h.stats }

func (h *Headless) Close() error {
	if h.closed {
		return core.ErrNotReady
	}
	h.closed = true
	core.LogDebug("headless window closed after %d frames", h.frames)
	return nil
}
