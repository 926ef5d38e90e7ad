package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x flight.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}

	x := flight.State{1.0, 0.0}.Clone()
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(sys, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x0 := flight.State{1.0, 0.0}

	initialEnergy := sys.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(sys, x, float64(i)*dt, dt)
	}

	finalEnergy := sys.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x0 := flight.State{1.0, 0.0}

	x, dtNext, err := integrator.StepAdaptive(sys, x0, 0, 0.1, 1e-8)
	if err != nil {
		t.Errorf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if dtNext <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", dtNext)
	}
}

func TestRK45_StepRecommendationShrinksOnSlop(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x0 := flight.State{1.0, 0.0}

	// A huge step against a tight tolerance must come back smaller.
	_, dtNext, err := integrator.StepAdaptive(sys, x0, 0, 1.0, 1e-12)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if dtNext >= 1.0 {
		t.Errorf("expected shrunken step, got dtNext=%f", dtNext)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	sys := &harmonicOscillator{}
	x0 := flight.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(sys, x4, float64(i)*dt, dt)
		x45 = rk45.Step(sys, x45, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := sys.Energy(x4)
	e45 := sys.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Log("Warning: RK45 not more accurate than RK4 for this case")
	}
}
