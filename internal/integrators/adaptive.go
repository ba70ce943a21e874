package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

const (
	DefaultMaxSteps = 1_000_000
	DefaultMinStep  = 1e-12
)

// Adaptive drives a Stepper with local error control and resamples the
// accepted steps onto the caller's grid. Steppers implementing DenseStepper
// use their own continuous extension; the rest fall back to cubic Hermite
// interpolation.
type Adaptive struct {
	stepper  Stepper
	safety   float64
	minScale float64
	maxScale float64

	// MaxSteps bounds accepted plus rejected steps; 0 means DefaultMaxSteps.
	MaxSteps int
	// MinStep aborts the run when a rejected step shrinks below it.
	MinStep float64
	// MaxStep caps the step size; 0 leaves it unbounded.
	MaxStep float64
	// InitialStep overrides the automatic starting step when > 0.
	InitialStep float64
}

func NewAdaptive(s Stepper) *Adaptive {
	return &Adaptive{
		stepper:  s,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
		MaxSteps: DefaultMaxSteps,
		MinStep:  DefaultMinStep,
	}
}

func (a *Adaptive) Stepper() Stepper { return a.stepper }

func (a *Adaptive) Integrate(ctx context.Context, f dynamo.VectorField, y0 []float64, grid []float64, tol dynamo.Tolerance) ([][]float64, dynamo.SolverStats, error) {
	var stats dynamo.SolverStats

	if err := checkGrid(grid); err != nil {
		return nil, stats, err
	}
	if !(tol.Rel >= 0) || !(tol.Abs >= 0) || tol.Rel+tol.Abs <= 0 {
		return nil, stats, &dynamo.ConfigError{Field: "tolerance", Value: tol, Reason: "need rel, abs >= 0 and not both zero"}
	}

	n := len(y0)
	out := make([][]float64, len(grid))
	out[0] = append([]float64(nil), y0...)

	t := grid[0]
	tEnd := grid[len(grid)-1]
	y := append([]float64(nil), y0...)
	k1 := make([]float64, n)
	yNew := make([]float64, n)
	fNew := make([]float64, n)
	errVec := make([]float64, n)

	fail := func(err error) ([][]float64, dynamo.SolverStats, error) {
		var st dynamo.State
		copy(st[:], y)
		return nil, stats, &dynamo.IntegrationError{
			Step:    stats.Accepted,
			Time:    t,
			State:   st,
			Wrapped: err,
		}
	}

	f(t, y, k1)
	stats.Evaluations++
	if !finite(y) || !finite(k1) {
		return fail(dynamo.ErrNonFinite)
	}

	h := a.InitialStep
	if h <= 0 {
		h = a.initialStep(f, t, y, k1, tol, &stats)
	}
	h = math.Min(h, tEnd-t)

	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	q := float64(a.stepper.ErrorOrder())
	dense, hasDense := a.stepper.(DenseStepper)
	rejectedLast := false
	next := 1

	for next < len(grid) {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if stats.Accepted+stats.Rejected >= maxSteps {
			return fail(dynamo.ErrStepBudget)
		}

		if a.MaxStep > 0 && h > a.MaxStep {
			h = a.MaxStep
		}
		last := false
		if t+h >= tEnd {
			h = tEnd - t
			last = true
		}

		a.stepper.Step(f, t, y, k1, h, yNew, errVec, fNew)
		stats.Evaluations += a.stepper.Evaluations()

		errNorm := math.Inf(1)
		if finite(yNew) && finite(fNew) {
			errNorm = a.errorNorm(errVec, y, yNew, tol)
		}

		if errNorm > 1 {
			stats.Rejected++
			rejectedLast = true
			scale := a.minScale
			if !math.IsInf(errNorm, 1) {
				scale = math.Max(a.minScale, a.safety*math.Pow(errNorm, -1/q))
			}
			h *= scale
			if h < a.MinStep {
				if math.IsInf(errNorm, 1) {
					return fail(dynamo.ErrNonFinite)
				}
				return fail(fmt.Errorf("%w: h=%g", dynamo.ErrStepTooSmall, h))
			}
			continue
		}

		tNew := t + h
		if last {
			tNew = tEnd
		}
		for next < len(grid) && grid[next] <= tNew {
			switch {
			case grid[next] == tNew:
				out[next] = append([]float64(nil), yNew...)
			case hasDense:
				out[next] = make([]float64, n)
				dense.Interpolate((grid[next]-t)/h, out[next])
			default:
				out[next] = hermite(t, y, k1, tNew, yNew, fNew, grid[next])
			}
			next++
		}

		stats.Accepted++
		stats.LastStep = h
		t = tNew
		y, yNew = yNew, y
		k1, fNew = fNew, k1

		scale := a.maxScale
		if errNorm > 0 {
			scale = math.Min(a.maxScale, a.safety*math.Pow(errNorm, -1/q))
		}
		if rejectedLast {
			scale = math.Min(scale, 1)
		}
		rejectedLast = false
		h *= scale
	}

	return out, stats, nil
}

// errorNorm is the max over components of |err_i| / (abs + rel*max(|y_i|, |y'_i|)).
func (a *Adaptive) errorNorm(errVec, y, yNew []float64, tol dynamo.Tolerance) float64 {
	errMax := 0.0
	for i := range errVec {
		scale := tol.Abs + tol.Rel*math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		errMax = math.Max(errMax, math.Abs(errVec[i])/scale)
	}
	return errMax
}

// initialStep follows the usual starting-step heuristic: make an explicit
// Euler step of size h0 small relative to |y|/|f| and pick h so that the
// estimated leading error term is near tolerance.
func (a *Adaptive) initialStep(f dynamo.VectorField, t float64, y, f0 []float64, tol dynamo.Tolerance, stats *dynamo.SolverStats) float64 {
	n := len(y)
	sc := make([]float64, n)
	for i := range y {
		sc[i] = tol.Abs + tol.Rel*math.Abs(y[i])
	}

	d0 := rmsScaled(y, sc)
	d1 := rmsScaled(f0, sc)
	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	y1 := make([]float64, n)
	for i := range y {
		y1[i] = y[i] + h0*f0[i]
	}
	f1 := make([]float64, n)
	f(t+h0, y1, f1)
	stats.Evaluations++

	diff := make([]float64, n)
	for i := range diff {
		diff[i] = f1[i] - f0[i]
	}
	d2 := rmsScaled(diff, sc) / h0

	var h1 float64
	if dm := math.Max(d1, d2); dm <= 1e-15 || math.IsNaN(dm) {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/dm, 1/float64(a.stepper.ErrorOrder()))
	}
	return math.Min(100*h0, h1)
}

func rmsScaled(v, sc []float64) float64 {
	sum := 0.0
	for i := range v {
		r := v[i] / sc[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(v)))
}

// hermite evaluates the cubic through (t0, y0, f0) and (t1, y1, f1) at tq.
func hermite(t0 float64, y0, f0 []float64, t1 float64, y1, f1 []float64, tq float64) []float64 {
	h := t1 - t0
	s := (tq - t0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make([]float64, len(y0))
	for i := range out {
		out[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
	}
	return out
}

func checkGrid(grid []float64) error {
	if len(grid) < 2 {
		return &dynamo.ConfigError{Field: "grid", Value: len(grid), Reason: "need at least two time points"}
	}
	for i := 1; i < len(grid); i++ {
		if !(grid[i] > grid[i-1]) {
			return &dynamo.ConfigError{Field: "grid", Value: grid[i], Reason: "times must be strictly increasing"}
		}
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
