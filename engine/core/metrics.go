package core

import "github.com/spaghettifunk/urdfviz/engine/containers"

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame time average and the frames per second of
// the render loop.
type Metrics struct {
	msTimes            *containers.RingQueue[float64]
	msAVG              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		msTimes: containers.NewRingQueue[float64](int(AVG_COUNT)),
	}
}

func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average over the last AVG_COUNT frames
	frameMS := frameElapsedTime * 1000.0
	m.msTimes.Push(frameMS)
	total := 0.0
	m.msTimes.Each(func(ms float64) { total += ms })
	m.msAVG = total / float64(m.msTimes.Len())

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	// Count all Frames.
	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}
