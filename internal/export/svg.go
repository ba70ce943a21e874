package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/viz"
)

const (
	bob1Color = "#00ccff"
	bob2Color = "#ff00ff"
	rodColor  = "#cccccc"
	// view is the half-width of the plotted square in rod lengths.
	view = 2.2 * dynamo.RodLength
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.Dot(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the paths of both bobs over the whole run and the
// rods at the final sample. The view is fixed to the reachable disc so
// traces from different runs are comparable.
func TrajectoryToSVG(tr *dynamo.Trajectory, size int) string {
	if tr.Len() < 2 {
		return ""
	}

	s := float64(size)
	project := func(x, y float64) (float64, float64) {
		return (x + view) / (2 * view) * s, s - (y+view)/(2*view)*s
	}

	positions := tr.Positions()
	path := func(pick func(dynamo.Position) (float64, float64)) string {
		var sb strings.Builder
		for i, p := range positions {
			x, y := project(pick(p))
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		return sb.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1\" stroke-opacity=\"0.6\" d=\"%s\"/>\n",
		bob1Color, path(func(p dynamo.Position) (float64, float64) { return p.X1, p.Y1 }))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1\" stroke-opacity=\"0.6\" d=\"%s\"/>\n",
		bob2Color, path(func(p dynamo.Position) (float64, float64) { return p.X2, p.Y2 }))

	last := positions[len(positions)-1]
	px, py := project(0, 0)
	x1, y1 := project(last.X1, last.Y1)
	x2, y2 := project(last.X2, last.Y2)
	fmt.Fprintf(&sb, "<polyline fill=\"none\" stroke=\"%s\" stroke-width=\"2\" points=\"%.1f,%.1f %.1f,%.1f %.1f,%.1f\"/>\n",
		rodColor, px, py, x1, y1, x2, y2)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"5\" fill=\"%s\"/>\n", x1, y1, bob1Color)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"5\" fill=\"%s\"/>\n", x2, y2, bob2Color)

	sb.WriteString("</svg>")
	return sb.String()
}
