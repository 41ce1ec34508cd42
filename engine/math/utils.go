package math

import "golang.org/x/exp/constraints"

// Clamp bounds f to [low, high]. Joint positions are clamped to their
// limits with it.
func Clamp[T constraints.Ordered](f, low, high T) T {
	return max(low, min(f, high))
}

// Saturate clamps a color channel to [0, 1].
func Saturate(c float32) float32 {
	return Clamp(c, 0, 1)
}
