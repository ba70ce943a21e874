package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

var (
	ErrLengthMismatch = errors.New("analysis: trajectories differ in length")
	ErrNoSeparation   = errors.New("analysis: trajectories start identical")
	ErrNoOscillation  = errors.New("analysis: fewer than two zero crossings")
)

// Divergence returns |a(t) - b(t)| (Euclidean, full state) at every sample.
func Divergence(a, b *dynamo.Trajectory) ([]float64, error) {
	if a.Len() != b.Len() {
		return nil, ErrLengthMismatch
	}
	out := make([]float64, a.Len())
	for i := range a.Samples {
		out[i] = a.Samples[i].State.Sub(b.Samples[i].State).Norm()
	}
	return out, nil
}

// FiniteTimeLyapunov estimates the largest Lyapunov exponent from two
// trajectories as the least-squares slope of ln|δx(t)| over the samples
// before the separation saturates (|δx| < 1). A positive value indicates
// chaos.
func FiniteTimeLyapunov(a, b *dynamo.Trajectory) (float64, error) {
	d, err := Divergence(a, b)
	if err != nil {
		return 0, err
	}
	if len(d) == 0 || d[0] == 0 {
		return 0, ErrNoSeparation
	}

	var sumT, sumL, sumTT, sumTL float64
	n := 0
	for i, v := range d {
		if v <= 0 || v >= 1 {
			if v >= 1 {
				break
			}
			continue
		}
		ti := a.Samples[i].Time
		l := math.Log(v)
		sumT += ti
		sumL += l
		sumTT += ti * ti
		sumTL += ti * l
		n++
	}
	if n < 2 {
		return 0, nil
	}

	fn := float64(n)
	den := fn*sumTT - sumT*sumT
	if den == 0 {
		return 0, nil
	}
	return (fn*sumTL - sumT*sumL) / den, nil
}

// DivergenceTime is the first sample time at which the separation exceeds
// threshold. ok is false if it never does.
func DivergenceTime(a, b *dynamo.Trajectory, threshold float64) (t float64, ok bool, err error) {
	d, err := Divergence(a, b)
	if err != nil {
		return 0, false, err
	}
	for i, v := range d {
		if v > threshold {
			return a.Samples[i].Time, true, nil
		}
	}
	return 0, false, nil
}
