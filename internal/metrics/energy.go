package metrics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Hamiltonian is anything that can report total mechanical energy.
type Hamiltonian interface {
	Energy(x dynamo.State) float64
}

// Energy reports the mean total energy over the observed samples.
type Energy struct {
	name        string
	sys         Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(sys Hamiltonian) *Energy {
	return &Energy{name: "energy", sys: sys}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	e.totalEnergy += e.sys.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest |E(t) - E(0)| / |E(0)| seen. When E(0) is
// zero the absolute deviation is reported instead.
type EnergyDrift struct {
	name          string
	sys           Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(sys Hamiltonian) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", sys: sys}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergySeries returns E(t) for every sample of tr.
func EnergySeries(sys Hamiltonian, tr *dynamo.Trajectory) []float64 {
	out := make([]float64, tr.Len())
	for i, s := range tr.Samples {
		out[i] = sys.Energy(s.State)
	}
	return out
}
