package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/dpend/internal/dynamo"
)

func swinging(n int, dt float64) *dynamo.Trajectory {
	tr := &dynamo.Trajectory{Params: dynamo.DefaultParams(), Dt: dt}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		tr.Samples = append(tr.Samples, dynamo.Sample{
			Time:  t,
			State: dynamo.State{0.5 * math.Cos(3*t), 0, 0.8 * math.Sin(2*t), 0},
		})
	}
	return tr
}

func TestCanvasSetClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)
	if got := c.Lit(); got != 2 {
		t.Errorf("lit = %d, want 2", got)
	}
	if !c.Dot(7, 7) || c.Dot(1, 0) || c.Dot(8, 0) {
		t.Error("Dot disagrees with Set")
	}
	if first := []rune(c.String())[0]; first != 0x2801 {
		t.Errorf("first cell = %U, want U+2801", first)
	}

	c.Clear()
	if c.Lit() != 0 {
		t.Error("expected empty canvas after clear")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 0)
	if got := c.Lit(); got != 10 {
		t.Errorf("horizontal line lit %d, want 10", got)
	}
	if lines := strings.Count(c.String(), "\n"); lines != 5 {
		t.Errorf("rows = %d, want 5", lines)
	}
}

func TestLayoutFitsFullReach(t *testing.T) {
	c := NewCanvas(40, 20)
	l := NewLayout(c)

	pivot := l.project(0, 0)
	if pivot.x != 40 || pivot.y != 40 {
		t.Errorf("pivot = %+v, want centre (40, 40)", pivot)
	}

	for _, xy := range [][2]float64{{reach, 0}, {-reach, 0}, {0, reach}, {0, -reach}} {
		p := l.project(xy[0], xy[1])
		if p.x < 0 || p.x >= 80 || p.y < 0 || p.y >= 80 {
			t.Errorf("point %v projected off canvas to %+v", xy, p)
		}
	}

	down := l.project(0, -1)
	if down.y <= pivot.y {
		t.Error("hanging bob should be drawn below the pivot")
	}
}

func TestTrailWindow(t *testing.T) {
	positions := swinging(200, 0.02).Positions()

	if got := len(TrailWindow(positions, 100, 0.02, 1)); got != 51 {
		t.Errorf("trail len = %d, want 51", got)
	}
	if got := len(TrailWindow(positions, 10, 0.02, 1)); got != 11 {
		t.Errorf("early trail len = %d, want 11", got)
	}
	if TrailWindow(positions, 200, 0.02, 1) != nil {
		t.Error("expected nil for out-of-range index")
	}
}

func TestDrawFrame(t *testing.T) {
	tr := swinging(60, 0.02)
	c := Snapshot(tr, 59, 30, 15)
	if c.Lit() == 0 {
		t.Fatal("expected a drawn frame")
	}

	empty := NewCanvas(30, 15)
	DrawFrame(empty, NewLayout(empty), nil)
	if empty.Lit() != 0 {
		t.Error("empty trail should draw nothing")
	}
}

func TestPlayerAdvanceAndSeek(t *testing.T) {
	p := NewPlayer("test", swinging(11, 0.1), nil)

	p.Advance(0.35)
	if p.Frame() != 3 {
		t.Errorf("frame = %d, want 3", p.Frame())
	}

	p.Advance(10)
	if p.Frame() != 10 {
		t.Errorf("frame = %d, want last", p.Frame())
	}
	if p.running {
		t.Error("playback should stop at the last sample")
	}

	p.Seek(-4)
	if p.Frame() != 0 {
		t.Errorf("frame = %d, want 0", p.Frame())
	}
	p.Seek(99)
	if p.Frame() != 10 {
		t.Errorf("frame = %d, want 10", p.Frame())
	}
}

func TestPlayerView(t *testing.T) {
	tr := swinging(50, 0.02)
	energy := make([]float64, tr.Len())
	for i := range energy {
		energy[i] = -20 + 0.01*float64(i%3)
	}

	p := NewPlayer("chaos", tr, energy)
	p.Seek(25)
	view := p.View()
	for _, want := range []string{"Time", "θ1", "Energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ember").Name != "ember" {
		t.Error("expected ember theme")
	}
	if GetTheme("missing").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", ThemeInk.Primary, ThemeInk.Secondary) != "" {
		t.Error("expected empty output")
	}
	if r, g, b := parseHex("#0088ff"); r != 0 || g != 0x88 || b != 0xff {
		t.Errorf("parseHex = %d %d %d", r, g, b)
	}
	if hexColor(300, -5, 171) != "#ff00ab" {
		t.Errorf("hexColor = %s", hexColor(300, -5, 171))
	}
}
