package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

type oscillator struct{}

func (s *oscillator) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int { return 2 }

// tossed is gravity-only rigid-body flight, the system every scheme here
// must integrate well.
type tossed struct{}

func (f *tossed) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[flight.IVX], x[flight.IVY], x[flight.IOmega], 0, -9.8, 0}
}

func (f *tossed) StateDim() int { return flight.StateLen }

func TestRK4Accuracy(t *testing.T) {
	sys := &oscillator{}
	integ := NewRK4()

	x := flight.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

// Ballistic closed forms: x(t)=8t, y(t)=2+4t-4.9t^2, theta(t)=2-7t.
// Polynomial solutions, so every scheme above first order lands on them
// to rounding error; Euler only misses the quadratic in y.
func TestClosedFormFlight(t *testing.T) {
	tests := []struct {
		integ flight.Integrator
		yTol  float64
	}{
		{NewEuler(), 1e-2},
		{NewRK4(), 1e-9},
		{NewRK45(), 1e-9},
		{NewVerlet(), 1e-9},
		{NewLeapfrog(), 1e-9},
	}

	sys := &tossed{}
	dt := 0.001
	steps := 1000

	for _, tt := range tests {
		t.Run(tt.integ.Name(), func(t *testing.T) {
			x := flight.NewState(0, 2, 2, 8, 4, -7)
			for i := 0; i < steps; i++ {
				x = tt.integ.Step(sys, x, float64(i)*dt, dt)
			}

			if got := x[flight.IX]; math.Abs(got-8.0) > 1e-9 {
				t.Errorf("x(1) = %.12f, want 8", got)
			}
			if got := x[flight.ITheta]; math.Abs(got-(-5.0)) > 1e-9 {
				t.Errorf("theta(1) = %.12f, want -5", got)
			}
			if got := x[flight.IY]; math.Abs(got-1.1) > tt.yTol {
				t.Errorf("y(1) = %.12f, want 1.1 within %g", got, tt.yTol)
			}
			if got := x[flight.IVY]; math.Abs(got-(-5.8)) > tt.yTol {
				t.Errorf("vy(1) = %.12f, want -5.8 within %g", got, tt.yTol)
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		integ, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, integ.Name())
		}
		if integ.Order() < 1 {
			t.Errorf("%q reports order %d", name, integ.Order())
		}
	}

	if _, err := ByName("simpson"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}
