package bodies

import (
	"fmt"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

// Knife is a throwing knife modeled as a uniform bar: the center of mass
// sits at the middle and the inertia is (1/12)mL^2.
type Knife struct {
	Gravity    float64
	Mass       float64
	Length     float64
	GuardWidth float64
}

func NewKnife() *Knife {
	return &Knife{
		Gravity:    9.8,
		Mass:       0.2,
		Length:     0.26,
		GuardWidth: 0.05,
	}
}

func (k *Knife) Name() string  { return "knife" }
func (k *Knife) StateDim() int { return flight.StateLen }

func (k *Knife) Derive(x flight.State, t float64) flight.State {
	return flight.State{
		x[flight.IVX], x[flight.IVY], x[flight.IOmega],
		0, -k.Gravity, 0,
	}
}

func (k *Knife) Inertia() float64 {
	return k.Mass * k.Length * k.Length / 12
}

func (k *Knife) Energy(x flight.State) float64 {
	vx, vy, omega := x[flight.IVX], x[flight.IVY], x[flight.IOmega]
	ke := 0.5 * k.Mass * (vx*vx + vy*vy)
	keRot := 0.5 * k.Inertia() * omega * omega
	pe := k.Mass * k.Gravity * x[flight.IY]
	return ke + keRot + pe
}

// Silhouette draws the spine from pommel to tip plus a crossguard a
// quarter of the way up.
func (k *Knife) Silhouette(x flight.State) []geom.Segment {
	f := geom.NewFrame(x[flight.ITheta])
	com := CenterOfMass(x)

	half := k.Length / 2
	pommel := f.At(com, -half, 0)
	tip := f.At(com, half, 0)

	guardAlong := -half / 2
	guardA := f.At(com, guardAlong, k.GuardWidth/2)
	guardB := f.At(com, guardAlong, -k.GuardWidth/2)

	return []geom.Segment{
		{A: pommel, B: tip},
		{A: guardA, B: guardB},
	}
}

func (k *Knife) Reach() float64 { return k.Length / 2 }

func (k *Knife) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":     k.Gravity,
		"mass":        k.Mass,
		"length":      k.Length,
		"guard_width": k.GuardWidth,
	}
}

func (k *Knife) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		k.Gravity = value
	case "mass":
		k.Mass = value
	case "length":
		k.Length = value
	case "guard_width":
		k.GuardWidth = value
	default:
		return fmt.Errorf("%w: %s", flight.ErrUnknownParam, name)
	}
	return nil
}
