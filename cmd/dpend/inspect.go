package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dpend/internal/analysis"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/export"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/storage"
	"github.com/san-kum/dpend/internal/viz"
)

var stateCaptions = [...]string{
	dynamo.Theta1: "θ1 (inner angle)",
	dynamo.Omega1: "ω1 (inner angular velocity)",
	dynamo.Theta2: "θ2 (outer angle)",
	dynamo.Omega2: "ω2 (outer angular velocity)",
}

func plot(data []float64, height int, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	meta, tr, err := storage.New(dataDir).LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if tr.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", meta.ID)
	}
	return meta, tr, nil
}

// output opens --out, or stdout when unset.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tθ1\tθ2\tM1/M2\tDURATION\tDT\tMETHOD")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%g/%g\t%.2fs\t%.4fs\t%s\n",
			run.ID[:8],
			humanize.Time(run.Timestamp),
			run.Initial[dynamo.Theta1],
			run.Initial[dynamo.Theta2],
			run.Params.M1, run.Params.M2,
			run.Duration,
			run.Dt,
			run.Method,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", tr.Len())
	for idx, caption := range stateCaptions {
		fmt.Println(plot(tr.Column(idx), 10, caption))
		fmt.Println()
	}
	return nil
}

func energyRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sys, err := energySystem(meta)
	if err != nil {
		return err
	}

	energy := metrics.EnergySeries(sys, tr)
	e0 := energy[0]
	rel := make([]float64, len(energy))
	for i, e := range energy {
		rel[i] = e - e0
		if e0 != 0 {
			rel[i] /= math.Abs(e0)
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("initial energy: %.9f J\n\n", e0)
	fmt.Println(plot(rel, 10, "relative energy drift (E - E0)/|E0|"))
	fmt.Println()
	values := metrics.Evaluate(tr, metrics.NewEnergyDrift(sys))
	fmt.Printf("max relative drift: %.3e\n", values["energy_drift"])
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	times := tr.Times()
	for _, idx := range []int{dynamo.Theta1, dynamo.Theta2} {
		values := tr.Column(idx)

		ps := analysis.PowerSpectrum(values)
		if len(ps) > 4 {
			fmt.Println(plot(ps[:len(ps)/4], 10, "power spectrum "+stateCaptions[idx]))
			fmt.Println()
		}

		freq := analysis.DominantFrequency(values, tr.Dt)
		fmt.Printf("%s\n", stateCaptions[idx])
		fmt.Printf("  dominant frequency: %.3f hz\n", freq)
		if period, err := analysis.Period(times, values); err == nil {
			fmt.Printf("  zero-crossing period: %.3f s\n", period)
		} else if errors.Is(err, analysis.ErrNoOscillation) {
			fmt.Println("  zero-crossing period: n/a (no oscillation about 0)")
		}
		fmt.Println()
	}

	slow, fast := physics.NormalModes(meta.Params)
	fmt.Printf("small-angle normal modes: %.3f hz, %.3f hz\n", slow/(2*math.Pi), fast/(2*math.Pi))
	final := tr.Final()
	w := final.State.Wrapped()
	fmt.Printf("final state (t=%.2f): θ1=%.4f θ2=%.4f (wrapped)\n", final.Time, w[dynamo.Theta1], w[dynamo.Theta2])
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(tr, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("state index out of range: x=%d y=%d", xAxis, yAxis)
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", stateCaptions[xAxis], stateCaptions[yAxis])
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func poincarePlot(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	section := analysis.NewPoincareSection(tr, dynamo.Theta2, 0, dynamo.Theta1, dynamo.Omega1)
	fmt.Printf("poincaré section: %s\n", meta.ID)
	fmt.Printf("crossings: %d\n\n", len(section.Points))
	fmt.Println(analysis.PoincareSectionToASCII(section, 70, 20))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(out, tr); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data := storage.NewExportData(meta.Method, meta.Duration, tr, meta.Metrics)
	if outFile != "" {
		return storage.ExportJSON(outFile, data)
	}
	return storage.WriteJSON(os.Stdout, data)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if frameAt >= 0 {
		i := min(int(math.Round(frameAt/tr.Dt)), tr.Len()-1)
		svg = export.CanvasToSVG(viz.Snapshot(tr, i, 60, 30), float64(svgSize)/120)
	} else {
		svg = export.TrajectoryToSVG(tr, svgSize)
	}
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}

	out, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, svg+"\n"); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exportHTML(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sys, err := energySystem(meta)
	if err != nil {
		return err
	}

	out, err := output()
	if err != nil {
		return err
	}
	if err := export.WriteHTML(out, "double pendulum "+meta.ID[:8], tr, metrics.EnergySeries(sys, tr)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func playRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sys, err := energySystem(meta)
	if err != nil {
		return err
	}
	return viz.Play("double pendulum "+meta.ID[:8], tr, metrics.EnergySeries(sys, tr))
}
