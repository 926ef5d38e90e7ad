package integrators

import "github.com/san-kum/throwsim/internal/flight"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }
func (e *Euler) Order() int   { return 1 }

func (e *Euler) Step(sys flight.System, x flight.State, t float64, dt float64) flight.State {
	dx := sys.Derive(x, t)
	result := make(flight.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
