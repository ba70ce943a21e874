package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// massForm is the linear form c1*m1 + c2*m2.
type massForm struct {
	c1, c2 float64
}

func (f massForm) eval(m1, m2 float64) float64 {
	return f.c1*m1 + f.c2*m2
}

func (f massForm) add(o massForm) massForm {
	return massForm{f.c1 + o.c1, f.c2 + o.c2}
}

func (f massForm) sub(o massForm) massForm {
	return massForm{f.c1 - o.c1, f.c2 - o.c2}
}

// positive reports whether the form is > 0 for every m1, m2 > 0.
func (f massForm) positive() bool {
	return f.c1 >= 0 && f.c2 >= 0 && (f.c1 > 0 || f.c2 > 0)
}

// lagrangian holds the coefficients of L = T - V for two point masses on
// rigid rods. Bob k sits at Σ_{j≤k} l_j (sin θj, -cos θj), so
//
//	T = ½ Σ_ij l_i l_j μ_max(i,j) cos(θi - θj) θ̇i θ̇j
//	V = -g Σ_k l_k μ_k cos θk
//
// where μ_k is the mass carried by rod k (all bobs at or beyond it).
type lagrangian struct {
	lengths [2]float64
	carried [2]massForm
}

func newLagrangian(l1, l2 float64) lagrangian {
	bobs := [2]massForm{{1, 0}, {0, 1}}

	var lg lagrangian
	lg.lengths = [2]float64{l1, l2}
	for k := range lg.carried {
		for j := k; j < len(bobs); j++ {
			lg.carried[k] = lg.carried[k].add(bobs[j])
		}
	}
	return lg
}

// inertia returns the constant factor and mass form of M_ij; the full
// entry is factor * form * cos(θi - θj).
func (lg lagrangian) inertia(i, j int) (float64, massForm) {
	return lg.lengths[i] * lg.lengths[j], lg.carried[max(i, j)]
}

// eulerLagrange evaluates d/dt(∂L/∂θ̇i) - ∂L/∂θi = 0 rearranged as
// a θ̈ = b. Differentiating T in time produces the M θ̈ terms and
// velocity-squared terms whose θ̇iθ̇j cross parts cancel against ∂T/∂θi,
// leaving only -Σ_j l_i l_j μ_max(i,j) sin(θi - θj) θ̇j². ∂V/∂θi gives
// g l_i μ_i sin θi.
func (lg lagrangian) eulerLagrange(theta, omega [2]float64, m1, m2, g float64) (a [2][2]float64, b [2]float64) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			factor, form := lg.inertia(i, j)
			mu := factor * form.eval(m1, m2)
			d := theta[i] - theta[j]
			a[i][j] = mu * math.Cos(d)
			b[i] -= mu * math.Sin(d) * omega[j] * omega[j]
		}
		b[i] -= g * lg.lengths[i] * lg.carried[i].eval(m1, m2) * math.Sin(theta[i])
	}
	return a, b
}

// checkUnique verifies det M > 0 for all angles and positive masses.
// det M = l1²l2² μ2 (μ1 - μ2 cos²Δ) is smallest at cos²Δ = 1, where it is
// l1²l2² μ2 (μ1 - μ2).
func (lg lagrangian) checkUnique() error {
	for k, l := range lg.lengths {
		if !(l > 0) {
			return &dynamo.DerivationError{Reason: fmt.Sprintf("rod %d has non-positive length", k+1)}
		}
	}
	if !lg.carried[1].positive() {
		return &dynamo.DerivationError{Reason: "outer rod carries no mass"}
	}
	if !lg.carried[0].sub(lg.carried[1]).positive() {
		return &dynamo.DerivationError{Reason: "mass matrix is singular when the rods align"}
	}
	return nil
}

// Derive builds the angular accelerations of the unit-rod double pendulum.
func Derive() (dynamo.Accelerations, error) {
	return deriveChain(dynamo.RodLength, dynamo.RodLength)
}

func deriveChain(l1, l2 float64) (dynamo.Accelerations, error) {
	lg := newLagrangian(l1, l2)
	if err := lg.checkUnique(); err != nil {
		return dynamo.Accelerations{}, err
	}

	solve := func(k int) dynamo.AccelerationFunc {
		return func(theta1, theta2, omega1, omega2, m1, m2, g float64) float64 {
			a, b := lg.eulerLagrange([2]float64{theta1, theta2}, [2]float64{omega1, omega2}, m1, m2, g)
			return cramer(a, b)[k]
		}
	}

	return dynamo.Accelerations{Theta1: solve(0), Theta2: solve(1)}, nil
}

func cramer(a [2][2]float64, b [2]float64) [2]float64 {
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	return [2]float64{
		(b[0]*a[1][1] - a[0][1]*b[1]) / det,
		(a[0][0]*b[1] - b[0]*a[1][0]) / det,
	}
}
