package flight

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decaySystem struct{}

func (d *decaySystem) Derive(x State, t float64) State {
	return State{-x[0]}
}

func (d *decaySystem) StateDim() int { return 1 }

// driftFree has constant velocity and exactly conserved energy.
type driftFree struct{}

func (f *driftFree) Derive(x State, t float64) State { return State{x[1], 0} }
func (f *driftFree) StateDim() int                   { return 2 }
func (f *driftFree) Energy(x State) float64          { return 0.5 * x[1] * x[1] }

type eulerStep struct{}

func (e *eulerStep) Step(sys System, x State, t, dt float64) State {
	dx := sys.Derive(x, t)
	result := make(State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

func (e *eulerStep) Name() string { return "euler-test" }
func (e *eulerStep) Order() int   { return 1 }

func TestSimulatorRun(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	final := result.Final()[0]
	expected := math.Exp(-1.0)
	if math.Abs(final-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, final)
	}
}

func TestSimulatorStepCountRounding(t *testing.T) {
	// 1.0/0.001 is not exactly 1000 in floating point; the step count
	// must round, not truncate, or runs fall one sample short.
	sim := New(&driftFree{}, &eulerStep{})

	cfg := Config{Dt: 0.001, Duration: 1.0}
	result, err := sim.Run(context.Background(), State{0, 1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", result.StepsTaken)
	}

	lastT := result.Times[len(result.Times)-1]
	if math.Abs(lastT-1.0) > 1e-9 {
		t.Errorf("final time = %.12f, want 1.0", lastT)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}, ErrBadTimeStep},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}, ErrBadTimeStep},
		{"NaN dt", Config{Dt: math.NaN(), Duration: 1.0}, ErrBadTimeStep},
		{"zero duration", Config{Dt: 0.1, Duration: 0}, ErrBadDuration},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}, ErrBadDuration},
		{"adaptive without tolerance", Config{Dt: 0.1, Duration: 1.0, Adaptive: true}, ErrBadTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), State{1.0}, tt.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	_, err := sim.Run(context.Background(), State{1.0, 2.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

type countingMetric struct {
	count int
	sum   float64
}

func (c *countingMetric) Name() string { return "mean" }
func (c *countingMetric) Observe(x State, t float64) {
	c.count++
	c.sum += x[0]
}
func (c *countingMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countingMetric) Reset() {
	c.count = 0
	c.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	metric := &countingMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["mean"]; !ok {
		t.Error("metric not found in result")
	}

	// One observation per recorded sample, initial state included.
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestSimulatorCancellation(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, State{1.0}, Config{Dt: 0.01, Duration: 10.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if result == nil || len(result.States) == 0 {
		t.Error("expected partial result with at least the initial sample")
	}
}

func TestSimulatorEnergyDrift_Conserved(t *testing.T) {
	sim := New(&driftFree{}, &eulerStep{})

	result, err := sim.Run(context.Background(), State{0, 2}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.EnergyDrift != 0 {
		t.Errorf("constant-velocity energy drift = %g, want 0", result.EnergyDrift)
	}
}

func TestSimulatorInvalidStateStops(t *testing.T) {
	blowup := &blowupSystem{}
	sim := New(blowup, &eulerStep{})

	result, err := sim.Run(context.Background(), State{1.0}, Config{
		Dt: 0.1, Duration: 1.0, ValidateState: true,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected recorded state error")
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Errorf("recorded error = %v, want ErrInvalidState", result.Errors[0])
	}
	if len(result.States) >= 11 {
		t.Error("run should stop early on invalid state")
	}
}

type blowupSystem struct{}

func (b *blowupSystem) Derive(x State, t float64) State {
	if t > 0.25 {
		return State{math.NaN()}
	}
	return State{x[0]}
}

func (b *blowupSystem) StateDim() int { return 1 }

func TestSimulatorAdaptive_StepDoubling(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	cfg := Config{
		Dt:        0.2,
		Duration:  1.0,
		Adaptive:  true,
		Tolerance: 1e-4,
		MinDt:     1e-8,
		MaxDt:     0.2,
	}

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lastT := result.Times[len(result.Times)-1]
	if math.Abs(lastT-1.0) > 1e-9 {
		t.Errorf("adaptive run ended at t=%.6f, want 1.0", lastT)
	}

	for i := 1; i < len(result.Times); i++ {
		if result.Times[i] <= result.Times[i-1] {
			t.Fatalf("times not strictly increasing at %d: %v <= %v",
				i, result.Times[i], result.Times[i-1])
		}
	}

	final := result.Final()[0]
	if math.Abs(final-math.Exp(-1.0)) > 1e-2 {
		t.Errorf("adaptive final = %.6f, want ~%.6f", final, math.Exp(-1.0))
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(&decaySystem{}, &eulerStep{})

	var seen int
	err := sim.RunWithCallback(context.Background(), State{1.0},
		Config{Dt: 0.1, Duration: 1.0},
		func(x State, tm float64) bool {
			seen++
			return seen < 5
		})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if seen != 5 {
		t.Errorf("callback called %d times, want 5 (early stop)", seen)
	}
}
