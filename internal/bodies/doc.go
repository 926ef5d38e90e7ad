// Package bodies provides rigid-body models for thrown objects.
//
// Each model implements the [flight.System] interface. In free flight
// the equations of motion are the same for every body: uniform gravity,
// zero torque. The bodies differ in mass distribution, which sets their
// energy and the silhouette drawn at each sample:
//
//   - [Axe]: handle rod plus head mass, composite inertia
//   - [Knife]: uniform bar
//   - [Ball]: solid sphere with a spin marker
//
// All models also implement [flight.Configurable] for parameter
// adjustment between runs and [flight.Hamiltonian] for energy drift
// diagnostics.
package bodies
