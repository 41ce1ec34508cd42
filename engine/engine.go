package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine left the render loop
	EngineStageStopped
)

// Solver produces link poses. LinkNames and LinkTransforms are index
// aligned.
type Solver interface {
	Step(deltaTime float64)
	LinkNames() []string
	LinkTransforms() []math.Transform
}

// EventSource reports events without blocking, e.g. the description watcher.
type EventSource interface {
	Poll() []core.Event
}

var (
	textColor   = math.NewVec3(1, 1, 1)
	noticeColor = math.NewVec3(1, 1, 0)
)

type Engine struct {
	currentStage atomic.Uint32
	config       *ApplicationConfig
	viewer       *systems.Viewer
	solver       Solver
	sources      []EventSource
	clock        *core.Clock
	metrics      *core.Metrics
	isRunning    atomic.Bool
	isSuspended  bool
	lastTime     float64
	frames       atomic.Uint64

	highlighted int
	notice      string
}

func New(config *ApplicationConfig, viewer *systems.Viewer, solver Solver) *Engine {
	e := &Engine{
		config:      config,
		viewer:      viewer,
		solver:      solver,
		clock:       core.NewClock(),
		metrics:     core.NewMetrics(),
		highlighted: -1,
	}
	e.setStage(EngineStageUninitialized)
	return e
}

// AddEventSource feeds the events of src into the loop once per frame.
func (e *Engine) AddEventSource(src EventSource) {
	e.sources = append(e.sources, src)
}

func (e *Engine) Stage() Stage { return Stage(e.currentStage.Load()) }

func (e *Engine) setStage(s Stage) { e.currentStage.Store(uint32(s)) }

// Frames is the number of frames rendered by Run.
func (e *Engine) Frames() uint64 { return e.frames.Load() }

func (e *Engine) Metrics() *core.Metrics { return e.metrics }

// Highlighted returns the link currently drawn in the highlight color.
func (e *Engine) Highlighted() (string, bool) {
	names := e.viewer.Names()
	if e.highlighted < 0 || e.highlighted >= len(names) {
		return "", false
	}
	return names[e.highlighted], true
}

// Run drives the solver and the viewer until the window closes, ctx is
// done or Shutdown is called.
func (e *Engine) Run(ctx context.Context) error {
	if e.viewer.Stage != systems.ViewerStageReady {
		return core.ErrNotReady
	}
	if !e.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("engine is already running")
	}
	e.setStage(EngineStageRunning)
	defer e.setStage(EngineStageStopped)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		select {
		case <-ctx.Done():
			core.LogInfo("render loop cancelled: %s", ctx.Err())
			e.isRunning.Store(false)
			return nil
		default:
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		e.handleEvents()

		if !e.isSuspended {
			step := delta
			if e.config.FixedDelta > 0 {
				step = e.config.FixedDelta
			}
			e.solver.Step(step)
		}
		e.viewer.Update(e.solver.LinkNames(), e.solver.LinkTransforms())

		if !e.config.HideOverlay {
			e.drawOverlay()
		}

		if !e.viewer.Render() {
			core.LogInfo("window closed after %d frames", e.frames.Load())
			e.isRunning.Store(false)
			break
		}
		e.frames.Add(1)
		e.metrics.Update(delta)
	}
	return nil
}

func (e *Engine) handleEvents() {
	events := e.viewer.Events()
	for _, src := range e.sources {
		events = append(events, src.Poll()...)
	}
	for _, ev := range events {
		switch ev.Code {
		case core.EVENT_CODE_APPLICATION_QUIT:
			e.isRunning.Store(false)
		case core.EVENT_CODE_KEY_PRESSED:
			e.onKey(ev.Key)
		case core.EVENT_CODE_DESCRIPTION_CHANGED:
			e.notice = fmt.Sprintf("%s changed on disk, restart to reload", ev.Path)
			core.LogInfo("%s changed on disk", ev.Path)
		}
	}
}

func (e *Engine) onKey(key core.KeyCode) {
	switch key {
	case core.KEY_TAB:
		e.cycleHighlight()
	case core.KEY_ESCAPE:
		if name, ok := e.Highlighted(); ok {
			e.viewer.ResetTemporalColor(name)
		}
		e.highlighted = -1
	case core.KEY_SPACE:
		e.isSuspended = !e.isSuspended
	}
}

func (e *Engine) cycleHighlight() {
	names := e.viewer.Names()
	if len(names) == 0 {
		return
	}
	if name, ok := e.Highlighted(); ok {
		e.viewer.ResetTemporalColor(name)
	}
	e.highlighted = (e.highlighted + 1) % len(names)
	c := e.config.HighlightColor
	e.viewer.SetTemporalColor(names[e.highlighted], c.X, c.Y, c.Z)
}

func (e *Engine) drawOverlay() {
	size := e.config.TextSize
	line := func(i int) math.Vec2 {
		return math.NewVec2(10, 10+float32(i)*size*1.2)
	}

	e.viewer.DrawText(e.config.Name, size, line(0), textColor)
	e.viewer.DrawText(fmt.Sprintf("%.0f fps (%.2f ms)", e.metrics.FPS(), e.metrics.FrameTime()), size, line(1), textColor)
	row := 2
	if name, ok := e.Highlighted(); ok {
		e.viewer.DrawText("selected: "+name, size, line(row), e.config.HighlightColor)
		row++
	}
	if e.isSuspended {
		e.viewer.DrawText("paused", size, line(row), textColor)
		row++
	}
	if e.notice != "" {
		e.viewer.DrawText(e.notice, size, line(row), noticeColor)
	}
}

// Shutdown asks the render loop to stop after the current frame.
func (e *Engine) Shutdown() error {
	if !e.isRunning.Load() {
		return nil
	}
	e.setStage(EngineStageShuttingDown)
	e.isRunning.Store(false)
	core.LogInfo("shutting down")
	return nil
}
