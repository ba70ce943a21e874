package physics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// SmallAnglePeriod is the linearised period of a single unit-rod pendulum.
// A double pendulum with m2 << m1 and small angles swings bob 1 at this
// period.
func SmallAnglePeriod(g float64) float64 {
	return 2 * math.Pi * math.Sqrt(dynamo.RodLength/g)
}

// NormalModes returns the two small-angle angular frequencies of the
// double pendulum, slow mode first. Linearising M θ̈ = r about the origin
// gives ω² = g (μ1 ± sqrt(μ1 μ2)) / m1 with μ1 = m1 + m2, μ2 = m2.
func NormalModes(p dynamo.Params) (slow, fast float64) {
	mu1 := p.M1 + p.M2
	root := math.Sqrt(mu1 * p.M2)
	slow = math.Sqrt(p.G * (mu1 - root) / p.M1)
	fast = math.Sqrt(p.G * (mu1 + root) / p.M1)
	return slow, fast
}
