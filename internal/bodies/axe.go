package bodies

import (
	"fmt"
	"math"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

// Axe is a throwing axe: a handle rod with a head mass set near the top
// end. The head shifts the center of mass toward the blade, which is why
// the silhouette's handle endpoints sit asymmetrically around the state
// position.
type Axe struct {
	Gravity      float64
	HandleMass   float64
	HeadMass     float64
	HandleLength float64
	HeadOffset   float64 // head center, measured from the handle butt
	BladeWidth   float64

	mass    float64
	comButt float64 // center of mass, measured from the handle butt
	inertia float64 // about the center of mass
}

func NewAxe() *Axe {
	a := &Axe{
		Gravity:      9.8,
		HandleMass:   0.25,
		HeadMass:     0.45,
		HandleLength: 0.40,
		HeadOffset:   0.33,
		BladeWidth:   0.11,
	}
	a.computeDerived()
	return a
}

// computeDerived folds the handle rod and head mass into total mass,
// center of mass, and inertia. The rod contributes (1/3)mL^2 about the
// butt; the head is treated as a point mass; the parallel-axis transfer
// moves the total to the center of mass.
func (a *Axe) computeDerived() {
	a.mass = a.HandleMass + a.HeadMass
	a.comButt = (a.HandleMass*a.HandleLength/2 + a.HeadMass*a.HeadOffset) / a.mass

	iButt := a.HandleMass*a.HandleLength*a.HandleLength/3 +
		a.HeadMass*a.HeadOffset*a.HeadOffset
	a.inertia = iButt - a.mass*a.comButt*a.comButt
}

func (a *Axe) Name() string  { return "axe" }
func (a *Axe) StateDim() int { return flight.StateLen }

func (a *Axe) Derive(x flight.State, t float64) flight.State {
	return flight.State{
		x[flight.IVX], x[flight.IVY], x[flight.IOmega],
		0, -a.Gravity, 0,
	}
}

func (a *Axe) Energy(x flight.State) float64 {
	vx, vy, omega := x[flight.IVX], x[flight.IVY], x[flight.IOmega]
	ke := 0.5 * a.mass * (vx*vx + vy*vy)
	keRot := 0.5 * a.inertia * omega * omega
	pe := a.mass * a.Gravity * x[flight.IY]
	return ke + keRot + pe
}

// Silhouette places the four outline points: both handle ends along the
// handle axis and both blade edges across it at the head.
func (a *Axe) Silhouette(x flight.State) []geom.Segment {
	f := geom.NewFrame(x[flight.ITheta])
	com := CenterOfMass(x)

	butt := f.At(com, -a.comButt, 0)
	tip := f.At(com, a.HandleLength-a.comButt, 0)

	headAlong := a.HeadOffset - a.comButt
	edgeA := f.At(com, headAlong, a.BladeWidth/2)
	edgeB := f.At(com, headAlong, -a.BladeWidth/2)

	return []geom.Segment{
		{A: butt, B: tip},
		{A: edgeA, B: edgeB},
	}
}

// Mass returns the total mass.
func (a *Axe) Mass() float64 { return a.mass }

// Inertia returns the moment of inertia about the center of mass.
func (a *Axe) Inertia() float64 { return a.inertia }

// BalancePoint returns the center of mass distance from the handle butt.
func (a *Axe) BalancePoint() float64 { return a.comButt }

// Reach returns the largest silhouette radius from the center of mass,
// used to size render viewports.
func (a *Axe) Reach() float64 {
	r := a.comButt
	if tip := a.HandleLength - a.comButt; tip > r {
		r = tip
	}
	head := math.Hypot(a.HeadOffset-a.comButt, a.BladeWidth/2)
	if head > r {
		r = head
	}
	return r
}

func (a *Axe) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":       a.Gravity,
		"handle_mass":   a.HandleMass,
		"head_mass":     a.HeadMass,
		"handle_length": a.HandleLength,
		"head_offset":   a.HeadOffset,
		"blade_width":   a.BladeWidth,
	}
}

func (a *Axe) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		a.Gravity = value
	case "handle_mass":
		a.HandleMass = value
	case "head_mass":
		a.HeadMass = value
	case "handle_length":
		a.HandleLength = value
	case "head_offset":
		a.HeadOffset = value
	case "blade_width":
		a.BladeWidth = value
	default:
		return fmt.Errorf("%w: %s", flight.ErrUnknownParam, name)
	}
	a.computeDerived()
	return nil
}
