package experiment

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dpend/internal/config"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/sim"
	"github.com/san-kum/dpend/internal/storage"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Config struct {
	Run       *config.Config
	Equations string
	Logger    logrus.FieldLogger
}

// Experiment is one configured run: validate, derive, integrate, measure.
type Experiment struct {
	cfg      Config
	registry *Registry
	acc      dynamo.Accelerations
	ready    bool
}

type Result struct {
	Trajectory *dynamo.Trajectory
	Energy     []float64
	Metrics    map[string]float64
	Elapsed    time.Duration
}

func New(cfg Config) *Experiment {
	if cfg.Run == nil {
		cfg.Run = config.DefaultConfig()
	}
	if cfg.Equations == "" {
		cfg.Equations = DefaultEquations
	}
	return &Experiment{cfg: cfg}
}

// Setup checks the configuration and only then obtains the equations of
// motion, so a bad config never reaches the derivation.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Run.Validate(); err != nil {
		return err
	}
	acc, err := r.GetEquations(e.cfg.Equations)
	if err != nil {
		return err
	}
	e.registry = r
	e.acc = acc
	e.ready = true
	return nil
}

func (e *Experiment) Accelerations() dynamo.Accelerations { return e.acc }

func (e *Experiment) SimConfig() sim.Config {
	cfg := e.cfg.Run.ToSim()
	cfg.Logger = e.cfg.Logger
	return cfg
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if !e.ready {
		return nil, ErrNotSetup
	}

	start := time.Now()
	tr, err := sim.Run(ctx, e.acc, e.cfg.Run.Params, e.cfg.Run.Initial(), e.SimConfig())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	sys := physics.NewDoublePendulum(e.acc, e.cfg.Run.Params)
	return &Result{
		Trajectory: tr,
		Energy:     metrics.EnergySeries(sys, tr),
		Metrics:    metrics.Evaluate(tr, e.registry.DefaultMetrics(e.acc, e.cfg.Run.Params)...),
		Elapsed:    elapsed,
	}, nil
}

// Metadata describes a finished run for the store.
func (e *Experiment) Metadata(res *Result) storage.RunMetadata {
	run := e.cfg.Run.ToSim()
	return storage.RunMetadata{
		Params:    e.cfg.Run.Params,
		Initial:   e.cfg.Run.Initial(),
		Dt:        run.Dt,
		Duration:  run.Duration,
		Method:    run.Method,
		Tolerance: run.Tolerance,
		Metrics:   res.Metrics,
	}
}
