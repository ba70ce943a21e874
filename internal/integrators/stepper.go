// Package integrators implements embedded Runge-Kutta steppers and the
// adaptive driver that turns them into a [dynamo.Solver].
package integrators

import "github.com/san-kum/dpend/internal/dynamo"

// Stepper advances one step of size h from (t, y).
//
// k1 holds f(t, y) on entry. Step writes the new state to yOut, a local
// error estimate to errOut and f(t+h, yOut) to fOut, so the caller can
// reuse fOut as the next k1. Steppers keep scratch buffers and must not
// be shared between goroutines.
type Stepper interface {
	Name() string
	// ErrorOrder is the exponent q+1 used for step-size control, where q
	// is the order of the lower-order solution of the pair.
	ErrorOrder() int
	// Evaluations is the number of f calls per step.
	Evaluations() int
	Step(f dynamo.VectorField, t float64, y, k1 []float64, h float64, yOut, errOut, fOut []float64)
}

// DenseStepper interpolates inside its most recent step with a continuous
// extension of the method, so the caller can sample between step endpoints
// at the accuracy of the step itself.
type DenseStepper interface {
	Stepper
	// Interpolate writes the solution at t + theta*h, theta in [0, 1], for
	// the last Step call. It is valid until the next Step.
	Interpolate(theta float64, out []float64)
}

func ensure(buf *[]float64, n int) []float64 {
	if len(*buf) != n {
		*buf = make([]float64, n)
	}
	return *buf
}
