package physics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// DoublePendulum binds derived accelerations to one set of constants.
type DoublePendulum struct {
	acc    dynamo.Accelerations
	params dynamo.Params
}

func NewDoublePendulum(acc dynamo.Accelerations, p dynamo.Params) *DoublePendulum {
	return &DoublePendulum{acc: acc, params: p}
}

func (d *DoublePendulum) Params() dynamo.Params { return d.params }

func (d *DoublePendulum) Field() dynamo.VectorField { return d.acc.Field(d.params) }

// Derivative returns dx/dt.
func (d *DoublePendulum) Derivative(x dynamo.State) dynamo.State {
	alpha1, alpha2 := d.acc.Eval(x, d.params)
	return dynamo.State{x[dynamo.Omega1], alpha1, x[dynamo.Omega2], alpha2}
}

func (d *DoublePendulum) Kinetic(x dynamo.State) float64 {
	m1, m2 := d.params.M1, d.params.M2
	l := dynamo.RodLength
	w1, w2 := x[dynamo.Omega1], x[dynamo.Omega2]

	v1sq := l * l * w1 * w1
	v2sq := l*l*w1*w1 + l*l*w2*w2 + 2*l*l*w1*w2*math.Cos(x[dynamo.Theta1]-x[dynamo.Theta2])
	return 0.5*m1*v1sq + 0.5*m2*v2sq
}

// Potential is measured with y up and the pivot at the origin.
func (d *DoublePendulum) Potential(x dynamo.State) float64 {
	pos := dynamo.PositionOf(x)
	return d.params.G * (d.params.M1*pos.Y1 + d.params.M2*pos.Y2)
}

func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	return d.Kinetic(x) + d.Potential(x)
}
