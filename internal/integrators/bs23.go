package integrators

import "github.com/san-kum/dpend/internal/dynamo"

// Bogacki-Shampine coefficients (RK3(2))
const (
	bsA2 = 1.0 / 2.0
	bsA3 = 3.0 / 4.0

	bsB1 = 2.0 / 9.0
	bsB2 = 1.0 / 3.0
	bsB3 = 4.0 / 9.0

	bsE1 = bsB1 - 7.0/24.0
	bsE2 = bsB2 - 1.0/4.0
	bsE3 = bsB3 - 1.0/3.0
	bsE4 = -1.0 / 8.0
)

// BogackiShampine is the low-order FSAL pair. Cheap per step, but needs
// far more steps than DormandPrince at tight tolerances.
type BogackiShampine struct {
	k2, k3  []float64
	scratch []float64
}

func NewBogackiShampine() *BogackiShampine {
	return &BogackiShampine{}
}

func (b *BogackiShampine) Name() string     { return "bs23" }
func (b *BogackiShampine) ErrorOrder() int  { return 3 }
func (b *BogackiShampine) Evaluations() int { return 3 }

func (b *BogackiShampine) Step(f dynamo.VectorField, t float64, x, k1 []float64, dt float64, xNew, errOut, k4 []float64) {
	n := len(x)
	k2, k3, s := ensure(&b.k2, n), ensure(&b.k3, n), ensure(&b.scratch, n)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*bsA2*k1[i]
	}
	f(t+bsA2*dt, s, k2)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*bsA3*k2[i]
	}
	f(t+bsA3*dt, s, k3)

	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(bsB1*k1[i]+bsB2*k2[i]+bsB3*k3[i])
	}
	f(t+dt, xNew, k4)

	for i := 0; i < n; i++ {
		errOut[i] = dt * (bsE1*k1[i] + bsE2*k2[i] + bsE3*k3[i] + bsE4*k4[i])
	}
}
