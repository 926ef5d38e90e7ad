package integrators

import (
	"fmt"

	"github.com/san-kum/throwsim/internal/flight"
)

// ByName builds a fresh integrator for the named scheme. Fresh matters:
// most schemes carry scratch buffers.
func ByName(name string) (flight.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	case "verlet":
		return NewVerlet(), nil
	case "leapfrog":
		return NewLeapfrog(), nil
	}
	return nil, fmt.Errorf("integrators: unknown scheme %q", name)
}

// Names lists the available schemes.
func Names() []string {
	return []string{"euler", "leapfrog", "rk4", "rk45", "verlet"}
}
