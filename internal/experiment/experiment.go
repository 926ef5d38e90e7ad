// Package experiment assembles runnable simulations from configuration:
// it resolves the body, applies parameter overrides, picks the integrator
// and attaches the standard metrics.
package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/throwsim/internal/config"
	"github.com/san-kum/throwsim/internal/flight"

	"github.com/san-kum/throwsim/internal/bodies"
)

type Experiment struct {
	cfg  *config.Config
	body bodies.Body
	sim  *flight.Simulator
}

// New validates cfg and wires a simulator for it.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	body, sim, err := build(cfg, reg)
	if err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, body: body, sim: sim}, nil
}

// NewSimulator builds a fresh simulator for cfg. Ensemble workers call
// this once each; integrators carry scratch buffers and must not be
// shared across goroutines.
func NewSimulator(cfg *config.Config, reg *Registry) (*flight.Simulator, error) {
	_, sim, err := build(cfg, reg)
	return sim, err
}

func build(cfg *config.Config, reg *Registry) (bodies.Body, *flight.Simulator, error) {
	body, err := reg.Body(cfg.Body)
	if err != nil {
		return nil, nil, err
	}

	// Apply overrides in a fixed order so the first bad name reported is
	// deterministic.
	names := make([]string, 0, len(cfg.Params))
	for name := range cfg.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := body.SetParam(name, cfg.Params[name]); err != nil {
			return nil, nil, fmt.Errorf("body %s: %w", cfg.Body, err)
		}
	}

	integ, err := reg.Integrator(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}

	sim := flight.New(body, integ)
	for _, m := range DefaultMetrics(body) {
		sim.AddMetric(m)
	}

	return body, sim, nil
}

// Run integrates the configured release over the configured window.
func (e *Experiment) Run(ctx context.Context) (*flight.Result, error) {
	return e.sim.Run(ctx, e.cfg.InitialState(), e.cfg.SimConfig())
}

// RunFrom integrates an alternative release with the same body and
// integrator settings.
func (e *Experiment) RunFrom(ctx context.Context, x0 flight.State) (*flight.Result, error) {
	return e.sim.Run(ctx, x0, e.cfg.SimConfig())
}

func (e *Experiment) Body() bodies.Body { return e.body }

func (e *Experiment) Simulator() *flight.Simulator { return e.sim }

func (e *Experiment) Config() *config.Config { return e.cfg }
