package geom

import "math"

// Frame is the orthonormal basis attached to a body's orientation.
// R points along the body axis (handle direction), T is R rotated +90
// degrees. Recomputed per sample from theta, never stored in state.
type Frame struct {
	R, T Vec2
}

// NewFrame builds the frame for orientation theta:
// R = (cos theta, sin theta), T = (-sin theta, cos theta).
func NewFrame(theta float64) Frame {
	sin, cos := math.Sincos(theta)
	return Frame{R: Vec2{cos, sin}, T: Vec2{-sin, cos}}
}

// At places a point offset from origin by along units of R and across
// units of T.
func (f Frame) At(origin Vec2, along, across float64) Vec2 {
	return Vec2{
		origin.X + along*f.R.X + across*f.T.X,
		origin.Y + along*f.R.Y + across*f.T.Y,
	}
}

// WrapAngle reduces theta to (-pi, pi] for display. Integration state
// keeps the unwrapped angle.
func WrapAngle(theta float64) float64 {
	w := math.Mod(theta+math.Pi, 2*math.Pi)
	if w <= 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}
