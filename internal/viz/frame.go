package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/dpend/internal/dynamo"
)

// reach is the largest distance a bob can be from the pivot.
const reach = 2 * dynamo.RodLength

type point struct{ x, y int }

// Layout maps pendulum coordinates (pivot at origin, y up) onto canvas
// sub-pixels.
type Layout struct {
	toScreen mgl64.Mat3
}

// NewLayout centres the pivot and fits both rods fully extended in any
// direction.
func NewLayout(c *Canvas) Layout {
	cw, ch := c.Width*2, c.Height*4
	scale := 0.95 * float64(min(cw, ch)/2) / reach
	// screen y grows downwards
	flip := mgl64.Scale2D(scale, -scale)
	return Layout{
		toScreen: mgl64.Translate2D(float64(cw/2), float64(ch/2)).Mul3(flip),
	}
}

func (l Layout) project(x, y float64) point {
	v := l.toScreen.Mul3x1(mgl64.Vec3{x, y, 1})
	return point{x: int(math.Round(v.X())), y: int(math.Round(v.Y()))}
}

// DrawFrame draws the trails of both bobs, the rods and the bobs for the
// last position in trail.
func DrawFrame(c *Canvas, l Layout, trail []dynamo.Position) {
	if len(trail) == 0 {
		return
	}
	for _, p := range trail {
		b1 := l.project(p.X1, p.Y1)
		b2 := l.project(p.X2, p.Y2)
		c.Set(b1.x, b1.y)
		c.Set(b2.x, b2.y)
	}

	cur := trail[len(trail)-1]
	pivot := l.project(0, 0)
	b1 := l.project(cur.X1, cur.Y1)
	b2 := l.project(cur.X2, cur.Y2)

	c.DrawLine(pivot.x, pivot.y, b1.x, b1.y)
	c.DrawLine(b1.x, b1.y, b2.x, b2.y)
	for _, b := range []point{b1, b2} {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c.Set(b.x+dx, b.y+dy)
			}
		}
	}
}

// TrailWindow returns the slice of positions covering the trail seconds
// up to and including index i.
func TrailWindow(positions []dynamo.Position, i int, dt, trail float64) []dynamo.Position {
	if i < 0 || i >= len(positions) {
		return nil
	}
	n := 1
	if dt > 0 {
		n = int(math.Round(trail/dt)) + 1
	}
	start := max(0, i-n+1)
	return positions[start : i+1]
}
