package viz

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is Width x Height terminal cells, addressed in dots:
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world coordinates onto canvas dots, keeping the aspect
// ratio and centering the world rectangle.
type Viewport struct {
	origin r2.Point
	scale  float64
	offX   float64
	offY   float64
}

func NewViewport(bounds r2.Rect, c *Canvas) Viewport {
	dotsW, dotsH := float64(c.Width*2-1), float64(c.Height*4-1)
	size := bounds.Size()
	if size.X <= 0 || size.Y <= 0 {
		return Viewport{origin: bounds.Lo(), scale: 1}
	}
	scale := math.Min(dotsW/size.X, dotsH/size.Y)
	return Viewport{
		origin: bounds.Lo(),
		scale:  scale,
		offX:   (dotsW - size.X*scale) / 2,
		offY:   (dotsH - size.Y*scale) / 2,
	}
}

func (v Viewport) Project(p r2.Point) (int, int) {
	x := (p.X-v.origin.X)*v.scale + v.offX
	y := (p.Y-v.origin.Y)*v.scale + v.offY
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) Line(c *Canvas, a, b r2.Point) {
	x0, y0 := v.Project(a)
	x1, y1 := v.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

// Outline draws the closed polygon pts.
func (v Viewport) Outline(c *Canvas, pts []r2.Point) {
	for i := range pts {
		v.Line(c, pts[i], pts[(i+1)%len(pts)])
	}
}

// Polyline draws the open path pts.
func (v Viewport) Polyline(c *Canvas, pts []r2.Point) {
	for i := 0; i+1 < len(pts); i++ {
		v.Line(c, pts[i], pts[i+1])
	}
}

func (v Viewport) Dot(c *Canvas, p r2.Point) {
	c.Set(v.Project(p))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
