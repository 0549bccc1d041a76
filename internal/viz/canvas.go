// Package viz renders scenes and recorded runs in the terminal: braille
// canvases, asciigraph plots, a bubbletea live view and SVG export.
package viz

import (
	"math"
	"strings"

	"github.com/san-kum/physim/internal/vec"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot matrix of Width x Height cells, addressing
// (2*Width) x (4*Height) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the addressable size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r dots. A radius below one dot
// lights the center only.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps the XY plane of world space onto canvas dots with a uniform
// scale, centering the world rectangle. Screen y grows downward like world y.
type Viewport struct {
	Min, Max vec.Vector3
	W, H     int
}

// FitViewport returns a viewport enclosing points, grown by pad (a fraction
// of the larger extent) on every side.
func FitViewport(points []vec.Vector3, w, h int, pad float64) Viewport {
	if len(points) == 0 {
		return Viewport{Min: vec.New(-1, -1, 0), Max: vec.New(1, 1, 0), W: w, H: h}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = vec.New(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), 0)
		hi = vec.New(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), 0)
	}
	extent := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if extent == 0 {
		extent = 1
	}
	margin := vec.New(extent*pad, extent*pad, 0)
	return Viewport{Min: lo.Sub(margin), Max: hi.Add(margin), W: w, H: h}
}

// Scale is the number of dots per world unit.
func (v Viewport) Scale() float64 {
	sx := float64(v.W-1) / math.Max(v.Max.X-v.Min.X, 1e-9)
	sy := float64(v.H-1) / math.Max(v.Max.Y-v.Min.Y, 1e-9)
	return math.Min(sx, sy)
}

// Map converts a world point to dot coordinates.
func (v Viewport) Map(p vec.Vector3) (int, int) {
	s := v.Scale()
	cx := (v.Min.X + v.Max.X) / 2
	cy := (v.Min.Y + v.Max.Y) / 2
	x := float64(v.W-1)/2 + (p.X-cx)*s
	y := float64(v.H-1)/2 + (p.Y-cy)*s
	return int(math.Round(x)), int(math.Round(y))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
