package world

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/geometry"
)

// Wall is a static convex obstacle with four corners and four borders.
type Wall struct {
	ID      string
	corners [4]r2.Point
	poly    geometry.Polygon
}

// NewWall builds the rectangle of the given thickness around the segment
// begin-end.
func NewWall(begin, end r2.Point, thickness float64) *Wall {
	dir := end.Sub(begin).Normalize()
	if dir == (r2.Point{}) {
		dir = r2.Point{X: 1}
	}
	n := dir.Ortho().Mul(thickness / 2)
	return NewWallFromCorners([4]r2.Point{
		begin.Add(n),
		end.Add(n),
		end.Sub(n),
		begin.Sub(n),
	})
}

func NewWallFromCorners(corners [4]r2.Point) *Wall {
	return &Wall{
		corners: corners,
		poly:    geometry.Polygon{corners[0], corners[1], corners[2], corners[3]},
	}
}

func (w *Wall) Point(i int) r2.Point        { return w.corners[i%4] }
func (w *Wall) Line(i int) geometry.Segment { return w.poly.Edge(i % 4) }
func (w *Wall) Polygon() geometry.Polygon   { return w.poly }
func (w *Wall) Contains(p r2.Point) bool    { return w.poly.Contains(p) }

func (w *Wall) Intersects(region geometry.Polygon) bool {
	return w.poly.Intersects(region)
}

// ClosestBorder returns the border nearest to p.
func (w *Wall) ClosestBorder(p r2.Point) geometry.Segment {
	return w.Line(w.ClosestLine(p))
}

// ClosestLine returns the index of the border nearest to p.
func (w *Wall) ClosestLine(p r2.Point) int {
	best := 0
	minimum := math.Inf(1)
	for i := 0; i < 4; i++ {
		if d := w.Line(i).Distance(p); d < minimum {
			minimum = d
			best = i
		}
	}
	return best
}

// Inward is the unit normal of border i pointing into the wall.
func (w *Wall) Inward(i int) r2.Point {
	line := w.Line(i)
	n := line.Direction().Ortho()
	center := w.corners[0].Add(w.corners[1]).Add(w.corners[2]).Add(w.corners[3]).Mul(0.25)
	if center.Sub(line.A).Dot(n) < 0 {
		n = n.Mul(-1)
	}
	return n
}
