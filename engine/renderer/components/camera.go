package components

import (
	"github.com/spaghettifunk/urdfviz/engine/math"
)

/**
 * @brief Represents an orbiting camera that looks at a
 * fixed target. The eye moves on a sphere around the
 * target; the up vector never changes.
 */
type Camera struct {
	/** @brief The position of the eye. */
	Eye math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief The world up direction. */
	Up math.Vec3
	/** @brief Vertical field of view in degrees. */
	Fovy float32
}

/** @brief Smallest distance the eye may have from the target. */
const MIN_DISTANCE float32 = 0.05

func NewCamera(eye, target, up math.Vec3, fovy float32) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     up.Normalize(),
		Fovy:   fovy,
	}
}

/**
 * @brief Spins the eye around the up axis through the target.
 * @param angle The angle in radians.
 */
func (c *Camera) Orbit(angle float32) {
	q := math.NewQuatFromAxisAngle(c.Up, angle, true)
	c.Eye = c.Target.Add(q.Rotate(c.Eye.Sub(c.Target)))
}

/**
 * @brief Raises or lowers the eye, keeping its distance. The
 * eye never crosses the up axis.
 * @param angle The angle in radians.
 */
func (c *Camera) Tilt(angle float32) {
	offset := c.Eye.Sub(c.Target)
	axis := c.Up.Cross(offset)
	if axis.LengthSquared() < math.K_FLOAT_EPSILON {
		return
	}
	q := math.NewQuatFromAxisAngle(axis, -angle, true)
	rotated := q.Rotate(offset)
	horizontal := offset.Sub(c.Up.MulScalar(offset.Dot(c.Up)))
	next := rotated.Sub(c.Up.MulScalar(rotated.Dot(c.Up)))
	if next.Dot(horizontal) <= 0 || next.Length() < 0.05*rotated.Length() {
		return
	}
	c.Eye = c.Target.Add(rotated)
}

/**
 * @brief Moves the eye toward the target by a factor.
 * @param factor Values below one zoom in.
 */
func (c *Camera) Zoom(factor float32) {
	offset := c.Eye.Sub(c.Target).MulScalar(factor)
	if offset.Length() < MIN_DISTANCE {
		offset = offset.Normalize().MulScalar(MIN_DISTANCE)
	}
	c.Eye = c.Target.Add(offset)
}

func (c *Camera) Distance() float32 {
	return c.Eye.Sub(c.Target).Length()
}
