package dynamo

import "context"

// Tolerance is the mixed error target of an adaptive solver: a step is
// accepted when |err_i| <= Abs + Rel*|y_i| for every component.
type Tolerance struct {
	Rel float64 `yaml:"rel" json:"rel"`
	Abs float64 `yaml:"abs" json:"abs"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{Rel: 1e-10, Abs: 1e-10}
}

// SolverStats describes the work done by one Integrate call.
type SolverStats struct {
	Accepted    int
	Rejected    int
	Evaluations int
	LastStep    float64
}

// Solver integrates dy/dt = f(t, y) from y0 at grid[0] and returns y at
// every grid time. grid must be strictly increasing. On error no samples
// are returned.
type Solver interface {
	Integrate(ctx context.Context, f VectorField, y0 []float64, grid []float64, tol Tolerance) ([][]float64, SolverStats, error)
}
