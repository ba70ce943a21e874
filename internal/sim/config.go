package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 10.0

	// MaxSamples bounds the output grid of a single run.
	MaxSamples = 10_000_000
)

type Config struct {
	Dt        float64
	Duration  float64
	Tolerance dynamo.Tolerance
	Method    string
	MaxSteps  int
	MinStep   float64
	MaxStep   float64
	// Logger receives per-run solver statistics at debug level. Nil is
	// silent.
	Logger logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Tolerance: dynamo.DefaultTolerance(),
		Method:    integrators.DefaultMethod,
		MaxSteps:  integrators.DefaultMaxSteps,
		MinStep:   integrators.DefaultMinStep,
	}
}

// Validate checks everything a run depends on before any derivation or
// integration happens.
func Validate(p dynamo.Params, x0 dynamo.State, cfg Config) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !x0.IsValid() {
		return &dynamo.ConfigError{Field: "initial state", Value: x0, Reason: "must be finite"}
	}
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return &dynamo.ConfigError{Field: "dt", Value: cfg.Dt, Reason: "must be positive and finite"}
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return &dynamo.ConfigError{Field: "duration", Value: cfg.Duration, Reason: "must be positive and finite"}
	}
	if cfg.Dt > cfg.Duration {
		return &dynamo.ConfigError{Field: "dt", Value: cfg.Dt, Reason: "must not exceed duration"}
	}
	if n := cfg.Duration / cfg.Dt; math.IsInf(n, 0) || n >= MaxSamples {
		return &dynamo.ConfigError{Field: "dt", Value: cfg.Dt, Reason: fmt.Sprintf("duration/dt must stay below %d samples", MaxSamples)}
	}
	if !(cfg.Tolerance.Rel >= 0) || !(cfg.Tolerance.Abs >= 0) || cfg.Tolerance.Rel+cfg.Tolerance.Abs <= 0 {
		return &dynamo.ConfigError{Field: "tolerance", Value: cfg.Tolerance, Reason: "need rel, abs >= 0 and not both zero"}
	}
	if cfg.MaxSteps < 0 {
		return &dynamo.ConfigError{Field: "max steps", Value: cfg.MaxSteps, Reason: "must not be negative"}
	}
	if _, err := integrators.New(cfg.method()); err != nil {
		return err
	}
	return nil
}

func (c Config) method() string {
	if c.Method == "" {
		return integrators.DefaultMethod
	}
	return c.Method
}

// Samples is the trajectory length for the config: ⌈T/Δt⌉ + 1.
func (c Config) Samples() int {
	// Absorb representation error so that e.g. 10/0.02 yields 500, not 501.
	return int(math.Ceil(c.Duration/c.Dt-1e-9)) + 1
}

// Grid returns the output times i*Δt, the last at or just past Duration.
func (c Config) Grid() []float64 {
	grid := make([]float64, c.Samples())
	for i := range grid {
		grid[i] = float64(i) * c.Dt
	}
	return grid
}

// Solver builds the adaptive solver described by the config.
func (c Config) Solver() (*integrators.Adaptive, error) {
	solver, err := integrators.NewSolver(c.method())
	if err != nil {
		return nil, err
	}
	if c.MaxSteps > 0 {
		solver.MaxSteps = c.MaxSteps
	}
	if c.MinStep > 0 {
		solver.MinStep = c.MinStep
	}
	solver.MaxStep = c.MaxStep
	return solver, nil
}
