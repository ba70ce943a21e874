package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// GridSearch evaluates a score over the cartesian product of parameter
// ranges. The first parameter varies slowest.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

type Point struct {
	Values     map[string]float64
	Score      float64
	Trajectory *dynamo.Trajectory
}

// Points enumerates every grid point in order.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil
	}
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, g.paramNames[depth])
}

// Search integrates one job per grid point in parallel and scores each
// trajectory. Points come back in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	acc dynamo.Accelerations,
	cfg sim.Config,
	workers int,
	build func(values map[string]float64) sim.Job,
	score func(tr *dynamo.Trajectory) float64,
) ([]Point, error) {
	values := g.Points()
	if len(values) == 0 {
		return nil, ErrEmptyGrid
	}

	jobs := make([]sim.Job, len(values))
	for i, v := range values {
		jobs[i] = build(v)
		if jobs[i].Name == "" {
			jobs[i].Name = fmt.Sprint(v)
		}
	}

	trajectories, err := sim.Sweep(ctx, acc, jobs, cfg, workers)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(values))
	for i, tr := range trajectories {
		points[i] = Point{Values: values[i], Score: score(tr), Trajectory: tr}
	}
	return points, nil
}

// Best returns the index of the lowest (or highest) score; NaN scores
// are skipped. It is -1 if no point has a usable score.
func Best(points []Point, minimize bool) int {
	best := -1
	for i, p := range points {
		if math.IsNaN(p.Score) {
			continue
		}
		if best == -1 || (minimize && p.Score < points[best].Score) || (!minimize && p.Score > points[best].Score) {
			best = i
		}
	}
	return best
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
