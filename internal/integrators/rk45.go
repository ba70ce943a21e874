package integrators

import "github.com/san-kum/dpend/internal/dynamo"

// Dormand-Prince coefficients (RK5(4))
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0

	// Hairer's fourth-order continuous extension.
	dense1 = -12715105075.0 / 11282082432.0
	dense3 = 87487479700.0 / 32700410799.0
	dense4 = -10690763975.0 / 1880347072.0
	dense5 = 701980252875.0 / 199316789632.0
	dense6 = -1453857185.0 / 822651844.0
	dense7 = 69997945.0 / 29380423.0
)

// DormandPrince is the RK5(4) pair with first-same-as-last evaluation:
// the seventh stage is f at the new point and becomes the next k1.
type DormandPrince struct {
	k2, k3, k4, k5, k6 []float64
	scratch            []float64

	// last step, kept for Interpolate
	h              float64
	y0, y1, k1, k7 []float64
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{}
}

func (r *DormandPrince) Name() string     { return "dopri5" }
func (r *DormandPrince) ErrorOrder() int  { return 5 }
func (r *DormandPrince) Evaluations() int { return 6 }

func (r *DormandPrince) ensureScratch(n int) {
	ensure(&r.k2, n)
	ensure(&r.k3, n)
	ensure(&r.k4, n)
	ensure(&r.k5, n)
	ensure(&r.k6, n)
	ensure(&r.scratch, n)
}

func (r *DormandPrince) Step(f dynamo.VectorField, t float64, x, k1 []float64, dt float64, xNew, errOut, k7 []float64) {
	n := len(x)
	r.ensureScratch(n)
	k2, k3, k4, k5, k6, s := r.k2, r.k3, r.k4, r.k5, r.k6, r.scratch

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*b21*k1[i]
	}
	f(t+a2*dt, s, k2)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	f(t+a3*dt, s, k3)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	f(t+a4*dt, s, k4)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	f(t+a5*dt, s, k5)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	f(t+dt, s, k6)

	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	f(t+dt, xNew, k7)

	for i := 0; i < n; i++ {
		errOut[i] = dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
	}

	r.h, r.y0, r.y1, r.k1, r.k7 = dt, x, xNew, k1, k7
}

func (r *DormandPrince) Interpolate(theta float64, out []float64) {
	h, k3, k4, k5, k6 := r.h, r.k3, r.k4, r.k5, r.k6
	t1 := 1 - theta
	for i := range out {
		diff := r.y1[i] - r.y0[i]
		b := h*r.k1[i] - diff
		c := diff - h*r.k7[i] - b
		d := h * (dense1*r.k1[i] + dense3*k3[i] + dense4*k4[i] + dense5*k5[i] + dense6*k6[i] + dense7*r.k7[i])
		out[i] = r.y0[i] + theta*(diff+t1*(b+theta*(c+t1*d)))
	}
}
