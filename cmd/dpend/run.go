package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/dpend/internal/analysis"
	"github.com/san-kum/dpend/internal/config"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/experiment"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/optim"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/sim"
	"github.com/san-kum/dpend/internal/storage"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, later layers winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	for name, apply := range map[string]func(){
		"dt":        func() { cfg.Dt = dt },
		"time":      func() { cfg.Duration = duration },
		"theta1":    func() { cfg.InitState.Theta1 = theta1 },
		"omega1":    func() { cfg.InitState.Omega1 = omega1 },
		"theta2":    func() { cfg.InitState.Theta2 = theta2 },
		"omega2":    func() { cfg.InitState.Omega2 = omega2 },
		"m1":        func() { cfg.Params.M1 = m1 },
		"m2":        func() { cfg.Params.M2 = m2 },
		"g":         func() { cfg.Params.G = gravity },
		"method":    func() { cfg.Method = method },
		"rtol":      func() { cfg.Tolerance.Rel = rtol },
		"atol":      func() { cfg.Tolerance.Abs = atol },
		"max-steps": func() { cfg.MaxSteps = maxSteps },
	} {
		if flags.Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

// setup validates the resolved config and derives the equations.
func setup(cmd *cobra.Command) (*experiment.Experiment, *config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(experiment.Config{Run: cfg, Equations: equations, Logger: log})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}
	return exp, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.WithFields(logrus.Fields{
		"theta1": cfg.InitState.Theta1,
		"theta2": cfg.InitState.Theta2,
		"method": cfg.ToSim().Method,
	}).Info("integrating")

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(result), result.Trajectory)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	final := result.Trajectory.Final()
	fmt.Printf("samples: %d\n", result.Trajectory.Len())
	fmt.Printf("final (t=%.2f): θ1=%.6f ω1=%.6f θ2=%.6f ω2=%.6f\n", final.Time,
		final.State[dynamo.Theta1], final.State[dynamo.Omega1], final.State[dynamo.Theta2], final.State[dynamo.Omega2])
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := lo.Keys(m)
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func chaosRun(cmd *cobra.Command, args []string) error {
	exp, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("theta1") && !cmd.Flags().Changed("theta2") && preset == "" && configFile == "" {
		cfg.InitState.Theta1 = 3 * math.Pi / 4
		cfg.InitState.Theta2 = 3 * math.Pi / 4
	}

	ctx, cancel := signalContext()
	defer cancel()

	x0 := cfg.Initial()
	perturbed := x0
	perturbed[dynamo.Theta2] += perturb

	jobs := []sim.Job{
		{Name: "base", Params: cfg.Params, Initial: x0},
		{Name: "perturbed", Params: cfg.Params, Initial: perturbed},
	}
	runs, err := sim.Sweep(ctx, exp.Accelerations(), jobs, exp.SimConfig(), 2)
	if err != nil {
		return err
	}

	div, err := analysis.Divergence(runs[0], runs[1])
	if err != nil {
		return err
	}
	lambda, err := analysis.FiniteTimeLyapunov(runs[0], runs[1])
	if err != nil {
		return err
	}

	fmt.Printf("initial θ1=%.4f θ2=%.4f, θ2 perturbed by %g\n\n", x0[dynamo.Theta1], x0[dynamo.Theta2], perturb)
	logDiv := make([]float64, len(div))
	for i, d := range div {
		logDiv[i] = math.Log10(math.Max(d, 1e-300))
	}
	fmt.Println(plot(logDiv, 12, "log10 |δx| vs time"))
	fmt.Println()

	fmt.Printf("final separation: %.3e\n", div[len(div)-1])
	fmt.Printf("finite-time lyapunov estimate: %.3f 1/s\n", lambda)
	if t, ok, _ := analysis.DivergenceTime(runs[0], runs[1], 0.1); ok {
		fmt.Printf("separation exceeds 0.1 at t=%.2f s\n", t)
	} else {
		fmt.Println("separation stays below 0.1")
	}
	return nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	methods := args
	if len(methods) == 0 {
		methods = experiment.NewRegistry().ListMethods()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing methods (dt=%.4f, duration=%.1fs, rtol=%g, atol=%g)\n\n", cfg.Dt, cfg.Duration, cfg.Tolerance.Rel, cfg.Tolerance.Abs)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tFINAL θ1\tFINAL θ2\tENERGY DRIFT\tTIME")

	for _, name := range methods {
		run := *cfg
		run.Method = name
		exp := experiment.New(experiment.Config{Run: &run, Equations: equations, Logger: log})
		if err := exp.Setup(experiment.NewRegistry()); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		final := result.Trajectory.Final().State
		fmt.Fprintf(w, "%s\t%.8f\t%.8f\t%.2e\t%v\n", name, final[dynamo.Theta1], final[dynamo.Theta2],
			result.Metrics["energy_drift"], time.Since(start).Round(time.Millisecond))
	}
	return w.Flush()
}

func sweepRun(cmd *cobra.Command, args []string) error {
	exp, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if gridPoints < 1 {
		return &dynamo.ConfigError{Field: "points", Value: gridPoints, Reason: "must be at least 1"}
	}

	ctx, cancel := signalContext()
	defer cancel()

	scoreFn, err := sweepScore(ctx, exp.Accelerations(), exp.SimConfig())
	if err != nil {
		return err
	}

	angles := optim.Linspace(0, math.Pi, gridPoints)
	search := optim.NewGridSearch([]string{"theta1", "theta2"}, [][]float64{angles, angles})

	start := time.Now()
	points, err := search.Search(ctx, exp.Accelerations(), exp.SimConfig(), workers,
		func(v map[string]float64) sim.Job {
			x0 := cfg.Initial()
			x0[dynamo.Theta1], x0[dynamo.Theta2] = v["theta1"], v["theta2"]
			return sim.Job{Name: fmt.Sprintf("θ1=%.3f θ2=%.3f", x0[dynamo.Theta1], x0[dynamo.Theta2]), Params: cfg.Params, Initial: x0}
		},
		scoreFn,
	)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"runs": len(points), "elapsed": time.Since(start)}).Info("sweep complete")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "θ1\tθ2\t%s\n", score)
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.6g\n", p.Values["theta1"], p.Values["theta2"], p.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best := optim.Best(points, false); best >= 0 {
		p := points[best]
		fmt.Printf("\nhighest %s: θ1=%.4f θ2=%.4f (%.6g)\n", score, p.Values["theta1"], p.Values["theta2"], p.Score)
	}
	return nil
}

// sweepScore maps the --score flag to a per-trajectory score.
func sweepScore(ctx context.Context, acc dynamo.Accelerations, cfg sim.Config) (func(*dynamo.Trajectory) float64, error) {
	switch score {
	case "flips":
		return func(tr *dynamo.Trajectory) float64 {
			return metrics.Evaluate(tr, metrics.NewFlips())["flips"]
		}, nil
	case "max_angular_speed":
		return func(tr *dynamo.Trajectory) float64 {
			return metrics.Evaluate(tr, metrics.NewMaxSpeed())["max_angular_speed"]
		}, nil
	case "lyapunov":
		return func(tr *dynamo.Trajectory) float64 {
			x0 := tr.Samples[0].State
			x0[dynamo.Theta2] += 1e-8
			other, err := sim.Run(ctx, acc, tr.Params, x0, cfg)
			if err != nil {
				log.WithError(err).WithField("initial", tr.Samples[0].State).Warn("perturbed run failed")
				return math.NaN()
			}
			lambda, err := analysis.FiniteTimeLyapunov(tr, other)
			if err != nil {
				log.WithError(err).WithField("initial", tr.Samples[0].State).Warn("no lyapunov estimate")
				return math.NaN()
			}
			return lambda
		}, nil
	}
	return nil, &dynamo.ConfigError{Field: "score", Value: score, Reason: "unknown score"}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tθ1\tω1\tθ2\tω2\tM1\tM2\tDURATION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%g\t%g\t%gs\n", name,
			p.InitState.Theta1, p.InitState.Omega1, p.InitState.Theta2, p.InitState.Omega2,
			p.Params.M1, p.Params.M2, p.Duration)
	}
	return w.Flush()
}

func energySystem(meta *storage.RunMetadata) (*physics.DoublePendulum, error) {
	acc, err := experiment.NewRegistry().GetEquations(experiment.DefaultEquations)
	if err != nil {
		return nil, err
	}
	return physics.NewDoublePendulum(acc, meta.Params), nil
}
