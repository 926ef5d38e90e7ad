package integrators

import (
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

type benchSystem struct{}

func (b *benchSystem) StateDim() int { return 2 }
func (b *benchSystem) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[1], -x[0]}
}

func BenchmarkEuler(b *testing.B) {
	benchStep(b, NewEuler())
}

func BenchmarkRK4(b *testing.B) {
	benchStep(b, NewRK4())
}

func BenchmarkRK45(b *testing.B) {
	benchStep(b, NewRK45())
}

func BenchmarkVerlet(b *testing.B) {
	benchStep(b, NewVerlet())
}

func BenchmarkLeapfrog(b *testing.B) {
	benchStep(b, NewLeapfrog())
}

func benchStep(b *testing.B, integ flight.Integrator) {
	b.Helper()

	sys := &benchSystem{}
	x := flight.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.01)
	}
}

type benchRigidBody struct{}

func (b *benchRigidBody) StateDim() int { return flight.StateLen }
func (b *benchRigidBody) Derive(x flight.State, t float64) flight.State {
	return flight.State{x[flight.IVX], x[flight.IVY], x[flight.IOmega], 0, -9.8, 0}
}

func BenchmarkRK4_RigidBody(b *testing.B) {
	integ := NewRK4()
	sys := &benchRigidBody{}
	x := flight.NewState(0, 2, 2, 8, 4, -7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.001)
	}
}

func BenchmarkLeapfrog_RigidBody(b *testing.B) {
	integ := NewLeapfrog()
	sys := &benchRigidBody{}
	x := flight.NewState(0, 2, 2, 8, 4, -7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, 0, 0.001)
	}
}
