package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

// splitOscillator is a harmonic oscillator in the positions-then-rates
// layout the symplectic schemes require: [q, v], dq/dt = v, dv/dt = -q.
type splitOscillator struct{}

func (s *splitOscillator) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[1], -x[0]}
}

func (s *splitOscillator) StateDim() int { return 2 }

func (s *splitOscillator) Energy(x flight.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestVerletEnergyBounded(t *testing.T) {
	testSymplecticEnergy(t, NewVerlet())
}

func TestLeapfrogEnergyBounded(t *testing.T) {
	testSymplecticEnergy(t, NewLeapfrog())
}

func testSymplecticEnergy(t *testing.T, integ flight.Integrator) {
	t.Helper()

	sys := &splitOscillator{}
	x := flight.State{1.0, 0.0}
	e0 := sys.Energy(x)

	dt := 0.01
	maxDrift := 0.0
	for i := 0; i < 10000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
		drift := math.Abs(sys.Energy(x)-e0) / e0
		if drift > maxDrift {
			maxDrift = drift
		}
	}

	// Symplectic schemes oscillate around the true energy instead of
	// drifting away from it.
	if maxDrift > 1e-3 {
		t.Errorf("%s max energy drift = %e over 10k steps", integ.Name(), maxDrift)
	}
}

func TestVerletAccuracy(t *testing.T) {
	sys := &splitOscillator{}
	integ := NewVerlet()

	x := flight.State{1.0, 0.0}
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expected := math.Cos(1.0)
	if math.Abs(x[0]-expected) > 1e-5 {
		t.Errorf("position = %.8f, want %.8f", x[0], expected)
	}
}

func TestLeapfrogMatchesVerletOnFlight(t *testing.T) {
	sys := &tossed{}
	verlet := NewVerlet()
	leapfrog := NewLeapfrog()

	xv := flight.NewState(0, 2, 2, 8, 4, -7)
	xl := xv.Clone()

	dt := 0.01
	for i := 0; i < 100; i++ {
		xv = verlet.Step(sys, xv, float64(i)*dt, dt)
		xl = leapfrog.Step(sys, xl, float64(i)*dt, dt)
	}

	for i := range xv {
		if math.Abs(xv[i]-xl[i]) > 1e-9 {
			t.Errorf("component %d: verlet=%.12f leapfrog=%.12f", i, xv[i], xl[i])
		}
	}
}
