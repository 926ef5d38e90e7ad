package flight

import (
	"context"
	"fmt"
	"math"
)

// Simulator drives one system through one integrator. Instances are not
// safe for concurrent use; Ensemble builds a simulator per worker.
type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// System returns the simulated system.
func (s *Simulator) System() System { return s.sys }

// Integrator returns the stepping scheme in use.
func (s *Simulator) Integrator() Integrator { return s.integrator }

// Run integrates from x0 over cfg.Duration and returns the sampled
// trajectory. The context is checked between steps; on cancellation the
// partial result is returned along with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	estimated := int(math.Round(cfg.Duration/cfg.Dt)) + 1
	result := &Result{
		Times:   make([]float64, 0, estimated),
		States:  make([]State, 0, estimated),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.Times = append(result.Times, t)
	result.States = append(result.States, x.Clone())
	s.observe(x, t)

	initialEnergy := s.energy(x)

	if cfg.Adaptive {
		err := s.runAdaptive(ctx, result, x, t, dt, cfg)
		s.finish(result, initialEnergy)
		return result, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		newX := s.integrator.Step(s.sys, x, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{
				Step: i, Time: t, State: newX, Wrapped: ErrInvalidState,
			})
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		result.Times = append(result.Times, t)
		result.States = append(result.States, x.Clone())
		s.observe(x, t)
	}

	s.finish(result, initialEnergy)
	return result, nil
}

func (s *Simulator) runAdaptive(ctx context.Context, result *Result, x State, t, dt float64, cfg Config) error {
	const tiny = 1e-12

	step := 0
	for t < cfg.Duration-tiny {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if remaining := cfg.Duration - t; dt > remaining {
			dt = remaining
		}

		newX, dtUsed, dtNext, stepErr := s.adaptiveStep(x, t, dt, cfg)
		if stepErr != nil {
			result.Errors = append(result.Errors, &SimulationError{
				Step: step, Time: t, State: newX, Wrapped: stepErr,
			})
			break
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{
				Step: step, Time: t, State: newX, Wrapped: ErrInvalidState,
			})
			break
		}

		x = newX
		t += dtUsed
		dt = clamp(dtNext, cfg.MinDt, cfg.MaxDt)
		step++
		result.StepsTaken++

		result.Times = append(result.Times, t)
		result.States = append(result.States, x.Clone())
		s.observe(x, t)
	}

	return nil
}

// adaptiveStep returns the accepted state, the dt actually consumed, and
// the recommended next dt. Time must advance by the consumed dt, never
// the recommendation.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, dtNext, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
		return newX, dt, dtNext, err
	}

	// Step doubling for fixed-step integrators: compare one full step
	// against two half steps and shrink until the difference meets tol.
	for {
		full := s.integrator.Step(s.sys, x, t, dt)
		half := s.integrator.Step(s.sys, x, t, dt/2)
		double := s.integrator.Step(s.sys, half, t+dt/2, dt/2)

		errEst := double.Sub(full).Norm()
		if errEst <= cfg.Tolerance {
			next := dt
			if errEst < cfg.Tolerance/10 {
				next = dt * 2
			}
			return double, dt, next, nil
		}
		if dt/2 < cfg.MinDt {
			return double, dt, dt, ErrStepTooSmall
		}
		dt /= 2
	}
}

// RunWithCallback integrates without recording, handing each sample to
// callback. Returning false from the callback stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(x State, t float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	if !callback(x, t) {
		return nil
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x = s.integrator.Step(s.sys, x, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: i + 1, Time: t, State: x, Wrapped: ErrInvalidState}
		}

		if !callback(x, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system wants %d",
			ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: got %v", ErrBadTimeStep, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: got %v", ErrBadDuration, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: got %v", ErrBadTolerance, cfg.Tolerance)
	}
	return nil
}

func (s *Simulator) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) energy(x State) float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

func (s *Simulator) finish(result *Result, initialEnergy float64) {
	if final := result.Final(); final != nil && initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.energy(final)-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
