package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/dpend/internal/dynamo"
)

// WriteHTML renders an interactive page with the angles, the angular
// velocities and, when given, the energy series of a run.
func WriteHTML(w io.Writer, title string, tr *dynamo.Trajectory, energy []float64) error {
	if tr.Len() == 0 {
		return fmt.Errorf("export: empty trajectory")
	}

	times := make([]string, tr.Len())
	for i, s := range tr.Samples {
		times[i] = fmt.Sprintf("%.2f", s.Time)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		lineChart(title, "angles (rad)", times, map[string][]float64{
			"θ1": tr.Column(dynamo.Theta1),
			"θ2": tr.Column(dynamo.Theta2),
		}, []string{"θ1", "θ2"}),
		lineChart(title, "angular velocities (rad/s)", times, map[string][]float64{
			"ω1": tr.Column(dynamo.Omega1),
			"ω2": tr.Column(dynamo.Omega2),
		}, []string{"ω1", "ω2"}),
	)
	if len(energy) == tr.Len() {
		page.AddCharts(lineChart(title, "total energy (J)", times, map[string][]float64{"E": energy}, []string{"E"}))
	}
	return page.Render(w)
}

func lineChart(title, subtitle string, times []string, series map[string][]float64, order []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(times)
	for _, name := range order {
		values := series[name]
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}
	return line
}
