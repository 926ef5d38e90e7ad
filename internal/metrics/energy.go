package metrics

import (
	"math"

	"github.com/san-kum/throwsim/internal/flight"
)

// MeanEnergy averages the system's total energy over the run.
type MeanEnergy struct {
	name    string
	sys     flight.Hamiltonian
	sum     float64
	samples int
}

func NewMeanEnergy(sys flight.Hamiltonian) *MeanEnergy {
	return &MeanEnergy{
		name: "mean_energy",
		sys:  sys,
	}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(x flight.State, t float64) {
	e.sum += e.sys.Energy(x)
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift tracks the worst relative departure from the initial
// energy, the standard integrator quality check.
type EnergyDrift struct {
	name          string
	sys           flight.Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(sys flight.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x flight.State, t float64) {
	energy := e.sys.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
