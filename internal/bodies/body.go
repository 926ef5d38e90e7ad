package bodies

import (
	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/geom"
)

// Body is a thrown rigid body: a flight system with a conserved energy,
// named parameters, and a drawable silhouette.
type Body interface {
	flight.System
	flight.Hamiltonian
	flight.Configurable

	// Name identifies the body in configs, artifacts, and the registry.
	Name() string

	// Silhouette places the body's outline segments for the given state.
	Silhouette(x flight.State) []geom.Segment

	// Reach is the largest distance from the center of mass to any
	// silhouette point. Cameras pad their bounds with it.
	Reach() float64
}

// CenterOfMass reads the position components of a state.
func CenterOfMass(x flight.State) geom.Vec2 {
	return geom.V(x[flight.IX], x[flight.IY])
}
