package flight

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("flight: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates the initial state does not match the
	// system's dimension.
	ErrDimensionMismatch = errors.New("flight: dimension mismatch between state and system")

	// ErrBadTimeStep indicates a non-positive or non-finite dt.
	ErrBadTimeStep = errors.New("flight: time step must be positive and finite")

	// ErrBadDuration indicates a non-positive run duration.
	ErrBadDuration = errors.New("flight: duration must be positive")

	// ErrBadTolerance indicates a non-positive adaptive tolerance.
	ErrBadTolerance = errors.New("flight: tolerance must be positive for adaptive stepping")

	// ErrStepTooSmall indicates the adaptive timestep fell below the minimum.
	ErrStepTooSmall = errors.New("flight: adaptive timestep below minimum")

	// ErrUnknownParam indicates a SetParam name the body does not expose.
	ErrUnknownParam = errors.New("flight: unknown parameter")
)

// SimulationError wraps an error with the step and time it occurred at.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
