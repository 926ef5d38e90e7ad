package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/throwsim/internal/bodies"
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/integrators"
	"github.com/san-kum/throwsim/internal/metrics"
)

var ErrUnknownBody = errors.New("experiment: unknown body")

// Registry maps body names to factories. Factories return fresh instances
// so parallel runs never share parameter state.
type Registry struct {
	bodies map[string]func() bodies.Body
}

func NewRegistry() *Registry {
	r := &Registry{
		bodies: make(map[string]func() bodies.Body),
	}

	r.bodies["axe"] = func() bodies.Body { return bodies.NewAxe() }
	r.bodies["knife"] = func() bodies.Body { return bodies.NewKnife() }
	r.bodies["ball"] = func() bodies.Body { return bodies.NewBall() }

	return r
}

func (r *Registry) Body(name string) (bodies.Body, error) {
	fn, ok := r.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, name)
	}
	return fn(), nil
}

func (r *Registry) Integrator(name string) (flight.Integrator, error) {
	return integrators.ByName(name)
}

func (r *Registry) ListBodies() []string {
	names := make([]string, 0, len(r.bodies))
	for name := range r.bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the observers attached to every run. The body
// doubles as the Hamiltonian for the energy metrics.
func DefaultMetrics(body bodies.Body) []flight.Metric {
	return []flight.Metric{
		metrics.NewApex(),
		metrics.NewRotations(),
		metrics.NewMeanEnergy(body),
		metrics.NewEnergyDrift(body),
	}
}
