package metrics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Flips counts how often the outer rod passes over the top, i.e. θ2
// crosses an odd multiple of π.
type Flips struct {
	name    string
	last    float64
	count   int
	samples int
}

func NewFlips() *Flips {
	return &Flips{name: "flips"}
}

func (f *Flips) Name() string { return f.name }

func (f *Flips) Observe(x dynamo.State, t float64) {
	theta := x[dynamo.Theta2]
	if f.samples > 0 {
		f.count += absInt(overTheTop(theta) - overTheTop(f.last))
	}
	f.last = theta
	f.samples++
}

func (f *Flips) Value() float64 { return float64(f.count) }

func (f *Flips) Reset() {
	f.count = 0
	f.samples = 0
	f.last = 0
}

// overTheTop indexes the band between consecutive odd multiples of π.
func overTheTop(theta float64) int {
	return int(math.Floor((theta + math.Pi) / (2 * math.Pi)))
}

// MaxSpeed is the largest |θ̇| of either rod.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_angular_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(x dynamo.State, t float64) {
	m.max = math.Max(m.max, math.Max(math.Abs(x[dynamo.Omega1]), math.Abs(x[dynamo.Omega2])))
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
