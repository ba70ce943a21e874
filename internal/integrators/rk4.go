package integrators

import "github.com/san-kum/dpend/internal/dynamo"

// RK4 is the classic fixed-step method. It carries no error estimate of
// its own; wrap it in StepDoubling for adaptive use.
type RK4 struct {
	k2, k3, k4 []float64
	scratch    []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	ensure(&r.k2, n)
	ensure(&r.k3, n)
	ensure(&r.k4, n)
	ensure(&r.scratch, n)
}

// Step writes y(t+dt) into out. k1 must hold f(t, x).
func (r *RK4) Step(f dynamo.VectorField, t float64, x, k1 []float64, dt float64, out []float64) {
	n := len(x)
	r.ensureScratch(n)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	f(t+dt*0.5, r.scratch, r.k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	f(t+dt*0.5, r.scratch, r.k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	f(t+dt, r.scratch, r.k4)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}

// StepDoubling estimates the RK4 local error by comparing one full step
// with two half steps (Richardson). The two-half-step result is kept.
type StepDoubling struct {
	rk4       *RK4
	full, mid []float64
	midF      []float64
}

func NewStepDoubling() *StepDoubling {
	return &StepDoubling{rk4: NewRK4()}
}

func (s *StepDoubling) Name() string     { return "rk4" }
func (s *StepDoubling) ErrorOrder() int  { return 5 }
func (s *StepDoubling) Evaluations() int { return 12 }

func (s *StepDoubling) Step(f dynamo.VectorField, t float64, x, k1 []float64, dt float64, xNew, errOut, fOut []float64) {
	n := len(x)
	full, mid, midF := ensure(&s.full, n), ensure(&s.mid, n), ensure(&s.midF, n)

	s.rk4.Step(f, t, x, k1, dt, full)
	s.rk4.Step(f, t, x, k1, dt/2, mid)
	f(t+dt/2, mid, midF)
	s.rk4.Step(f, t+dt/2, mid, midF, dt/2, xNew)
	f(t+dt, xNew, fOut)

	for i := 0; i < n; i++ {
		errOut[i] = (xNew[i] - full[i]) / 15
	}
}
