package flight

import "math"

// State is the flat state vector of a planar rigid body in free flight:
// [x, y, theta, vx, vy, omega]. Positions and orientation occupy the
// first half, their rates the second; the split-step integrators rely
// on that layout. Theta is never wrapped here, only at display time.
type State []float64

// Indices into a rigid-body State.
const (
	IX = iota
	IY
	ITheta
	IVX
	IVY
	IOmega

	StateLen = 6
)

// NewState assembles a rigid-body state from release conditions.
func NewState(x, y, theta, vx, vy, omega float64) State {
	return State{x, y, theta, vx, vy, omega}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is an autonomous ODE dX/dt = f(X, t). Derive must be pure:
// no mutation of x, no side effects.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems with a conserved total energy,
// enabling drift diagnostics.
type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances a state by one time step.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
	Name() string
	Order() int
}

// AdaptiveIntegrator additionally estimates local error and recommends
// the next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Metric accumulates a scalar diagnostic over a run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer receives every accepted sample during a run.
type Observer interface {
	OnStep(x State, t float64)
}

// Configurable systems expose their physical parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      1.0,
		Tolerance:     1e-6,
		MaxDt:         0.05,
		MinDt:         1e-9,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Result is a sampled trajectory with diagnostics. Read-only once
// produced.
type Result struct {
	Times       []float64
	States      []State
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last sampled state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Len returns the number of samples.
func (r *Result) Len() int { return len(r.States) }
