package engine

import "github.com/spaghettifunk/urdfviz/engine/math"

type ApplicationConfig struct {
	// The robot name shown in the overlay.
	Name string
	// Overlay text size in pixels.
	TextSize float32
	// Color a highlighted link is drawn with.
	HighlightColor math.Vec3
	// When set, every frame advances the solver by this many seconds
	// instead of the measured frame time.
	FixedDelta float64
	// Hides the overlay text.
	HideOverlay bool
}

func DefaultApplicationConfig(name string) *ApplicationConfig {
	return &ApplicationConfig{
		Name:           name,
		TextSize:       20,
		HighlightColor: math.NewVec3(1, 0, 0),
	}
}
