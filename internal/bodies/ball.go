package bodies

import (
	"fmt"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

// Ball is a solid sphere. Its flight ignores spin entirely, but the spin
// marker in the silhouette makes the rotation visible in animations.
type Ball struct {
	Gravity float64
	Mass    float64
	Radius  float64
}

func NewBall() *Ball {
	return &Ball{
		Gravity: 9.8,
		Mass:    0.15,
		Radius:  0.04,
	}
}

func (b *Ball) Name() string  { return "ball" }
func (b *Ball) StateDim() int { return flight.StateLen }

func (b *Ball) Derive(x flight.State, t float64) flight.State {
	return flight.State{
		x[flight.IVX], x[flight.IVY], x[flight.IOmega],
		0, -b.Gravity, 0,
	}
}

func (b *Ball) Inertia() float64 {
	return 0.4 * b.Mass * b.Radius * b.Radius
}

func (b *Ball) Energy(x flight.State) float64 {
	vx, vy, omega := x[flight.IVX], x[flight.IVY], x[flight.IOmega]
	ke := 0.5 * b.Mass * (vx*vx + vy*vy)
	keRot := 0.5 * b.Inertia() * omega * omega
	pe := b.Mass * b.Gravity * x[flight.IY]
	return ke + keRot + pe
}

// Silhouette draws a full-width spoke plus a half spoke across it, so
// spin reads clearly frame to frame.
func (b *Ball) Silhouette(x flight.State) []geom.Segment {
	f := geom.NewFrame(x[flight.ITheta])
	com := CenterOfMass(x)

	return []geom.Segment{
		{A: f.At(com, -b.Radius, 0), B: f.At(com, b.Radius, 0)},
		{A: com, B: f.At(com, 0, b.Radius)},
	}
}

func (b *Ball) Reach() float64 { return b.Radius }

func (b *Ball) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity": b.Gravity,
		"mass":    b.Mass,
		"radius":  b.Radius,
	}
}

func (b *Ball) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		b.Gravity = value
	case "mass":
		b.Mass = value
	case "radius":
		b.Radius = value
	default:
		return fmt.Errorf("%w: %s", flight.ErrUnknownParam, name)
	}
	return nil
}
