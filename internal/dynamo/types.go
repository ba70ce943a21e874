package dynamo

import (
	"math"
)

const (
	// RodLength is the length of both rods. The derivation supports
	// per-rod lengths, but only unit rods are exposed.
	RodLength = 1.0

	DefaultMass    = 1.0
	DefaultGravity = 9.81
)

// Params are the physical constants of a run.
type Params struct {
	M1 float64 `yaml:"m1" json:"m1"`
	M2 float64 `yaml:"m2" json:"m2"`
	G  float64 `yaml:"g" json:"g"`
}

func DefaultParams() Params {
	return Params{M1: DefaultMass, M2: DefaultMass, G: DefaultGravity}
}

// Validate rejects non-positive or non-finite constants.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"m1", p.M1}, {"m2", p.M2}, {"g", p.G}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
		if f.v <= 0 {
			return &ConfigError{Field: f.name, Value: f.v, Reason: "must be positive"}
		}
	}
	return nil
}

// State is (θ1, θ1̇, θ2, θ2̇). Both angles are measured from the downward
// vertical and are never wrapped.
type State [4]float64

const (
	Theta1 = iota
	Omega1
	Theta2
	Omega2
)

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	var r State
	for i := range s {
		r[i] = s[i] - other[i]
	}
	return r
}

// MaxAbsDiff is the infinity norm of s - other.
func (s State) MaxAbsDiff(other State) float64 {
	m := 0.0
	for i := range s {
		m = math.Max(m, math.Abs(s[i]-other[i]))
	}
	return m
}

// Wrapped returns a copy with both angles mapped to (-π, π]. Display only.
func (s State) Wrapped() State {
	s[Theta1] = wrapAngle(s[Theta1])
	s[Theta2] = wrapAngle(s[Theta2])
	return s
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// VectorField writes dy/dt at (t, y) into dy.
type VectorField func(t float64, y, dy []float64)

// AccelerationFunc maps (θ1, θ2, θ1̇, θ2̇, m1, m2, g) to an angular
// acceleration.
type AccelerationFunc func(theta1, theta2, omega1, omega2, m1, m2, g float64) float64

// Accelerations is the closed-form pair θ1̈, θ2̈. Both functions are pure.
type Accelerations struct {
	Theta1 AccelerationFunc
	Theta2 AccelerationFunc
}

// Eval returns both accelerations at x.
func (a Accelerations) Eval(x State, p Params) (alpha1, alpha2 float64) {
	alpha1 = a.Theta1(x[Theta1], x[Theta2], x[Omega1], x[Omega2], p.M1, p.M2, p.G)
	alpha2 = a.Theta2(x[Theta1], x[Theta2], x[Omega1], x[Omega2], p.M1, p.M2, p.G)
	return
}

// Field is the first-order system θ1' = θ1̇, θ1̇' = f1, θ2' = θ2̇, θ2̇' = f2.
func (a Accelerations) Field(p Params) VectorField {
	return func(_ float64, y, dy []float64) {
		dy[Theta1] = y[Omega1]
		dy[Omega1] = a.Theta1(y[Theta1], y[Theta2], y[Omega1], y[Omega2], p.M1, p.M2, p.G)
		dy[Theta2] = y[Omega2]
		dy[Omega2] = a.Theta2(y[Theta1], y[Theta2], y[Omega1], y[Omega2], p.M1, p.M2, p.G)
	}
}

// Position holds the Cartesian coordinates of both bobs, pivot at origin,
// y up.
type Position struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func PositionOf(s State) Position {
	x1 := RodLength * math.Sin(s[Theta1])
	y1 := -RodLength * math.Cos(s[Theta1])
	return Position{
		X1: x1,
		Y1: y1,
		X2: x1 + RodLength*math.Sin(s[Theta2]),
		Y2: y1 - RodLength*math.Cos(s[Theta2]),
	}
}

type Sample struct {
	Time  float64
	State State
}

// Trajectory is a complete, uniformly sampled run.
type Trajectory struct {
	Params  Params
	Dt      float64
	Samples []Sample
}

func (tr *Trajectory) Len() int { return len(tr.Samples) }

func (tr *Trajectory) Times() []float64 {
	ts := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		ts[i] = s.Time
	}
	return ts
}

// Column extracts one state component (see Theta1..Omega2) over time.
func (tr *Trajectory) Column(idx int) []float64 {
	col := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		col[i] = s.State[idx]
	}
	return col
}

func (tr *Trajectory) Final() Sample {
	return tr.Samples[len(tr.Samples)-1]
}

func (tr *Trajectory) Positions() []Position {
	ps := make([]Position, len(tr.Samples))
	for i, s := range tr.Samples {
		ps[i] = PositionOf(s.State)
	}
	return ps
}
