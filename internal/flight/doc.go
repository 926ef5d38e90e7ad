// Package flight provides the core primitives for simulating planar
// rigid-body free flight.
//
// The package defines the vocabulary shared by the rest of the module:
//
//   - [State]: flat vector [x, y, theta, vx, vy, omega]
//   - [System]: the ODE dX/dt = f(X, t)
//   - [Integrator]: numerical stepping scheme
//   - [Metric]: scalar diagnostics accumulated over a run
//   - [Simulator]: orchestrates one run, producing a [Result]
//
// # Example
//
//	body := bodies.NewAxe()
//	integ := integrators.NewRK4()
//	sim := flight.New(body, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe: integrators keep scratch
// buffers between steps. For parallel runs use [Ensemble], which builds
// an independent simulator per worker.
package flight
