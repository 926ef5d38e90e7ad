package integrators

import "github.com/san-kum/throwsim/internal/flight"

// Verlet is velocity Verlet. It assumes the state layout splits into
// positions followed by their rates, as rigid-body states do, and that
// the first half of the derivative equals the second half of the state.
// Symplectic, order 2.
type Verlet struct {
	scratch flight.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }
func (v *Verlet) Order() int   { return 2 }

func (v *Verlet) Step(sys flight.System, x flight.State, t, dt float64) flight.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(flight.State, n)
	}

	result := make(flight.State, n)
	dx := sys.Derive(x, t)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := sys.Derive(v.scratch, t+dt)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}

	return result
}

// Leapfrog is kick-drift-kick. Same layout assumption as Verlet.
type Leapfrog struct {
	scratch flight.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }
func (l *Leapfrog) Order() int   { return 2 }

func (l *Leapfrog) Step(sys flight.System, x flight.State, t, dt float64) flight.State {
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(flight.State, n)
	}

	result := make(flight.State, n)
	dx := sys.Derive(x, t)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDt
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	dxNew := sys.Derive(l.scratch, t+dt)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDt
	}

	return result
}
