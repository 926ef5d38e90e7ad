package analysis

import (
	"math"

	"github.com/san-kum/throwsim/internal/flight"
)

// ClosedForm is the exact solution of gravity-only flight:
//
//	x(t) = x0 + vx*t
//	y(t) = y0 + vy*t - g*t^2/2
//	theta(t) = theta0 + omega*t
//
// Velocities follow by differentiation. Every numerical trajectory of
// the same release can be checked against it.
type ClosedForm struct {
	X0, Y0, Theta0  float64
	VX0, VY0, Omega float64
	Gravity         float64
}

// ClosedFormFrom captures the release state of a trajectory.
func ClosedFormFrom(x0 flight.State, gravity float64) ClosedForm {
	return ClosedForm{
		X0:      x0[flight.IX],
		Y0:      x0[flight.IY],
		Theta0:  x0[flight.ITheta],
		VX0:     x0[flight.IVX],
		VY0:     x0[flight.IVY],
		Omega:   x0[flight.IOmega],
		Gravity: gravity,
	}
}

// At evaluates the exact state at time t.
func (c ClosedForm) At(t float64) flight.State {
	return flight.NewState(
		c.X0+c.VX0*t,
		c.Y0+c.VY0*t-0.5*c.Gravity*t*t,
		c.Theta0+c.Omega*t,
		c.VX0,
		c.VY0-c.Gravity*t,
		c.Omega,
	)
}

// ApexTime returns when the vertical velocity crosses zero, clamped to
// release time for downward throws.
func (c ClosedForm) ApexTime() float64 {
	if c.VY0 <= 0 || c.Gravity <= 0 {
		return 0
	}
	return c.VY0 / c.Gravity
}

// GroundTime solves y(t) = 0 for the descending branch. The second
// return is false when the trajectory never comes down to zero.
func (c ClosedForm) GroundTime() (float64, bool) {
	if c.Gravity <= 0 {
		return 0, false
	}
	disc := c.VY0*c.VY0 + 2*c.Gravity*c.Y0
	if disc < 0 {
		return 0, false
	}
	t := (c.VY0 + math.Sqrt(disc)) / c.Gravity
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Deviation is the worst departure of a numerical trajectory from the
// closed form, grouped by component kind.
type Deviation struct {
	Position float64
	Velocity float64
	Angle    float64
	Spin     float64
}

// Compare evaluates the closed form at every sample time and keeps the
// largest absolute error per group.
func Compare(r *flight.Result, c ClosedForm) Deviation {
	var d Deviation
	for i, t := range r.Times {
		exact := c.At(t)
		got := r.States[i]

		d.Position = math.Max(d.Position, math.Hypot(
			got[flight.IX]-exact[flight.IX],
			got[flight.IY]-exact[flight.IY],
		))
		d.Velocity = math.Max(d.Velocity, math.Hypot(
			got[flight.IVX]-exact[flight.IVX],
			got[flight.IVY]-exact[flight.IVY],
		))
		d.Angle = math.Max(d.Angle, math.Abs(got[flight.ITheta]-exact[flight.ITheta]))
		d.Spin = math.Max(d.Spin, math.Abs(got[flight.IOmega]-exact[flight.IOmega]))
	}
	return d
}

// Max returns the largest deviation across all groups.
func (d Deviation) Max() float64 {
	return math.Max(math.Max(d.Position, d.Velocity), math.Max(d.Angle, d.Spin))
}
