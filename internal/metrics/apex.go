package metrics

import (
	"math"

	"github.com/san-kum/throwsim/internal/flight"
)

// Apex tracks the highest altitude reached during the run.
type Apex struct {
	name    string
	maxY    float64
	samples int
}

func NewApex() *Apex {
	return &Apex{name: "apex"}
}

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(x flight.State, t float64) {
	if a.samples == 0 || x[flight.IY] > a.maxY {
		a.maxY = x[flight.IY]
	}
	a.samples++
}

func (a *Apex) Value() float64 {
	return a.maxY
}

func (a *Apex) Reset() {
	a.maxY = 0
	a.samples = 0
}

// Rotations counts full turns accumulated since release. Theta is
// unwrapped in state, so this is a plain difference.
type Rotations struct {
	name         string
	initialTheta float64
	lastTheta    float64
	samples      int
}

func NewRotations() *Rotations {
	return &Rotations{name: "rotations"}
}

func (r *Rotations) Name() string { return r.name }

func (r *Rotations) Observe(x flight.State, t float64) {
	theta := x[flight.ITheta]
	if r.samples == 0 {
		r.initialTheta = theta
	}
	r.lastTheta = theta
	r.samples++
}

func (r *Rotations) Value() float64 {
	return math.Abs(r.lastTheta-r.initialTheta) / (2 * math.Pi)
}

func (r *Rotations) Reset() {
	r.initialTheta = 0
	r.lastTheta = 0
	r.samples = 0
}
