package sim

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Run integrates from x0 over [0, Duration] and returns every grid sample.
func Run(ctx context.Context, acc dynamo.Accelerations, p dynamo.Params, x0 dynamo.State, cfg Config) (*dynamo.Trajectory, error) {
	if err := Validate(p, x0, cfg); err != nil {
		return nil, err
	}
	solver, err := cfg.Solver()
	if err != nil {
		return nil, err
	}
	return RunWith(ctx, solver, acc, p, x0, cfg)
}

// RunWith is Run with a caller-supplied solver. cfg.Method and the step
// limits are ignored.
func RunWith(ctx context.Context, solver dynamo.Solver, acc dynamo.Accelerations, p dynamo.Params, x0 dynamo.State, cfg Config) (*dynamo.Trajectory, error) {
	if err := Validate(p, x0, cfg); err != nil {
		return nil, err
	}
	if acc.Theta1 == nil || acc.Theta2 == nil {
		return nil, &dynamo.DerivationError{Reason: "accelerations not derived"}
	}

	grid := cfg.Grid()
	ys, stats, err := solver.Integrate(ctx, acc.Field(p), x0[:], grid, cfg.Tolerance)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.WithError(err).Warn("integration aborted")
		}
		return nil, err
	}

	traj := &dynamo.Trajectory{
		Params:  p,
		Dt:      cfg.Dt,
		Samples: make([]dynamo.Sample, len(grid)),
	}
	for i, y := range ys {
		traj.Samples[i].Time = grid[i]
		copy(traj.Samples[i].State[:], y)
	}

	if cfg.Logger != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"samples":     len(grid),
			"accepted":    stats.Accepted,
			"rejected":    stats.Rejected,
			"evaluations": stats.Evaluations,
			"last_step":   stats.LastStep,
		}).Debug("integration complete")
	}

	return traj, nil
}
