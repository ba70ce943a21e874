package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Job is one independent integration in a sweep.
type Job struct {
	Name    string
	Params  dynamo.Params
	Initial dynamo.State
}

// Sweep runs jobs concurrently on at most workers goroutines (0 means
// GOMAXPROCS). Results are index-aligned with jobs. The first failure
// cancels the remaining jobs and is returned.
func Sweep(ctx context.Context, acc dynamo.Accelerations, jobs []Job, cfg Config, workers int) ([]*dynamo.Trajectory, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*dynamo.Trajectory, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			tr, err := Run(gctx, acc, job.Params, job.Initial, cfg)
			if err != nil {
				return fmt.Errorf("sweep job %d (%s): %w", i, job.Name, err)
			}
			results[i] = tr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
