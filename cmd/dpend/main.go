package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/san-kum/dpend/internal/experiment"
	"github.com/san-kum/dpend/internal/integrators"
)

var (
	dataDir   string
	logLevel  string
	sentryDSN string
	log       = logrus.New()

	// run settings, see bindRunFlags
	dt         float64
	duration   float64
	theta1     float64
	omega1     float64
	theta2     float64
	omega2     float64
	m1         float64
	m2         float64
	gravity    float64
	method     string
	rtol       float64
	atol       float64
	maxSteps   int
	equations  string
	configFile string
	preset     string
	noSave     bool

	// inspection
	xAxis      int
	yAxis      int
	outFile    string
	svgSize    int
	frameAt    float64
	perturb    float64
	workers    int
	gridPoints int
	score      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dpend",
		Short:         "double pendulum derivation and trajectory lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return initSentry()
		},
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dpend", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&sentryDSN, "sentry-dsn", os.Getenv("SENTRY_DSN"), "report failed commands to sentry")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a trajectory and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	bindRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angles and angular velocities",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	energyCmd := &cobra.Command{
		Use:   "energy [run_id]",
		Short: "plot total energy and its drift",
		Args:  cobra.ExactArgs(1),
		RunE:  energyRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis (0 θ1, 1 ω1, 2 θ2, 3 ω2)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	poincareCmd := &cobra.Command{
		Use:   "poincare [run_id]",
		Short: "section at θ2 = 0 (rising), plotted in (θ1, ω1)",
		Args:  cobra.ExactArgs(1),
		RunE:  poincarePlot,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data with bob positions to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export bob traces, or a single frame, to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	exportSVGCmd.Flags().Float64Var(&frameAt, "frame", -1, "render the braille frame at this time instead of traces")

	exportHTMLCmd := &cobra.Command{
		Use:   "export-html [run_id]",
		Short: "export interactive charts of a run to HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  exportHTML,
	}
	exportHTMLCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}

	chaosCmd := &cobra.Command{
		Use:   "chaos",
		Short: "compare a run with a perturbed copy",
		Args:  cobra.NoArgs,
		RunE:  chaosRun,
	}
	bindRunFlags(chaosCmd)
	chaosCmd.Flags().Float64Var(&perturb, "perturb", 1e-8, "perturbation added to θ2")

	compareCmd := &cobra.Command{
		Use:   "compare [method...]",
		Short: "compare integration methods on the same initial state",
		RunE:  compareMethods,
	}
	bindRunFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "integrate a grid of initial angles in parallel",
		Args:  cobra.NoArgs,
		RunE:  sweepRun,
	}
	bindRunFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&gridPoints, "points", 5, "grid points per angle")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&score, "score", "flips", "metric to rank by (flips, max_angular_speed, lyapunov)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, energyCmd, analyzeCmd, phaseCmd, poincareCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, exportHTMLCmd, playCmd, chaosCmd, compareCmd, sweepCmd, presetsCmd)

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = rootCmd
		}
		log.WithError(err).Error("command failed")
		reportError(cmd, err)
		os.Exit(1)
	}
}

func initSentry() error {
	if sentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{Dsn: sentryDSN})
}

func reportError(cmd *cobra.Command, err error) {
	if sentryDSN == "" {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("command", cmd.Name())
		if cmd.Flags().Lookup("method") != nil {
			scope.SetTag("method", method)
		}
	})
	hub.CaptureException(err)
	hub.Flush(time.Second * 5)
}

func bindRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", 0.02, "output sample interval")
	f.Float64Var(&duration, "time", 10.0, "duration")
	f.Float64Var(&theta1, "theta1", 0, "initial angle of the inner rod (default π/4)")
	f.Float64Var(&omega1, "omega1", 0, "initial angular velocity of the inner rod")
	f.Float64Var(&theta2, "theta2", 0, "initial angle of the outer rod (default π/4)")
	f.Float64Var(&omega2, "omega2", 0, "initial angular velocity of the outer rod")
	f.Float64Var(&m1, "m1", 1, "inner bob mass")
	f.Float64Var(&m2, "m2", 1, "outer bob mass")
	f.Float64Var(&gravity, "g", 9.81, "gravitational acceleration")
	f.StringVar(&method, "method", integrators.DefaultMethod, fmt.Sprintf("integration method %v", integrators.Names()))
	f.Float64Var(&rtol, "rtol", 1e-10, "relative tolerance")
	f.Float64Var(&atol, "atol", 1e-10, "absolute tolerance")
	f.IntVar(&maxSteps, "max-steps", integrators.DefaultMaxSteps, "step budget")
	f.StringVar(&equations, "equations", experiment.DefaultEquations, "equation source (derived, closed-form)")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
