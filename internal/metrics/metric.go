package metrics

import "github.com/san-kum/dpend/internal/dynamo"

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Defaults is the metric set reported for every stored run.
func Defaults(sys Hamiltonian) []Metric {
	return []Metric{
		NewEnergy(sys),
		NewEnergyDrift(sys),
		NewFlips(),
		NewMaxSpeed(),
	}
}

// Evaluate resets each metric, feeds it the whole trajectory and collects
// the values by name.
func Evaluate(tr *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, s := range tr.Samples {
			m.Observe(s.State, s.Time)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
