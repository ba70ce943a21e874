package viz

import (
	"math/bits"
	"strings"
)

const brailleBlank = 0x2800

// dotBit maps a sub-pixel inside a 2x4 braille cell to its bit in the
// code point offset:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBit = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so a
// Width x Height canvas addresses (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// cell returns the index of the cell holding dot (x, y) and the dot's bit,
// or -1 when the dot is off canvas.
func (c *Canvas) cell(x, y int) (int, uint8) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return -1, 0
	}
	return (y/4)*c.Width + x/2, dotBit[y%4][x%2]
}

// Set lights the dot at (x, y); dots off canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit := c.cell(x, y); i >= 0 {
		c.cells[i] |= bit
	}
}

// Dot reports whether (x, y) is lit.
func (c *Canvas) Dot(x, y int) bool {
	i, bit := c.cell(x, y)
	return i >= 0 && c.cells[i]&bit != 0
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

// DrawLine rasterises the segment between two dots (Bresenham).
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}

	for e := dx - dy; ; {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		if 2*e > -dy {
			e -= dy
			x0 += sx
		}
		if 2*e < dx {
			e += dx
			y0 += sy
		}
	}
}

// Lit counts lit dots.
func (c *Canvas) Lit() int {
	n := 0
	for _, b := range c.cells {
		n += bits.OnesCount8(b)
	}
	return n
}

func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for _, b := range c.cells[row*c.Width : (row+1)*c.Width] {
			sb.WriteRune(brailleBlank + rune(b))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
