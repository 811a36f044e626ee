package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polygon is a closed polygon given by its vertices in order.
type Polygon []r2.Point

// RectPolygon returns the axis-aligned square of side size centered at c.
func RectPolygon(c r2.Point, size float64) Polygon {
	r := r2.RectFromCenterSize(c, r2.Point{X: size, Y: size})
	v := r.Vertices()
	return Polygon{v[0], v[1], v[2], v[3]}
}

func (p Polygon) Edge(i int) Segment {
	return Segment{A: p[i], B: p[(i+1)%len(p)]}
}

func (p Polygon) Edges() []Segment {
	edges := make([]Segment, len(p))
	for i := range p {
		edges[i] = p.Edge(i)
	}
	return edges
}

// Bound is the axis-aligned bounding rectangle.
func (p Polygon) Bound() r2.Rect {
	return r2.RectFromPoints(p...)
}

// BoundaryDistance is the distance from pt to the nearest edge.
func (p Polygon) BoundaryDistance(pt r2.Point) float64 {
	d := math.Inf(1)
	for i := range p {
		d = math.Min(d, p.Edge(i).Distance(pt))
	}
	return d
}

// Contains reports whether pt lies strictly inside the polygon. Points on
// the boundary, within Epsilon, are outside.
func (p Polygon) Contains(pt r2.Point) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside && p.BoundaryDistance(pt) > 1e-7
}

// Intersects reports whether two polygons overlap or touch.
func (p Polygon) Intersects(o Polygon) bool {
	if len(p) == 0 || len(o) == 0 {
		return false
	}
	if !p.Bound().Expanded(r2.Point{X: Epsilon, Y: Epsilon}).Intersects(o.Bound()) {
		return false
	}
	for i := range p {
		e := p.Edge(i)
		for j := range o {
			if e.Intersects(o.Edge(j)) {
				return true
			}
		}
	}
	return p.Contains(o[0]) || o.Contains(p[0])
}

// IntersectsSegment reports whether s crosses the polygon or lies inside it.
func (p Polygon) IntersectsSegment(s Segment) bool {
	for i := range p {
		if p.Edge(i).Intersects(s) {
			return true
		}
	}
	return p.Contains(s.A)
}

// Distance between two polygons, zero when they intersect.
func (p Polygon) Distance(o Polygon) float64 {
	if p.Intersects(o) {
		return 0
	}
	d := math.Inf(1)
	for i := range p {
		e := p.Edge(i)
		for j := range o {
			d = math.Min(d, SegmentDistance(e, o.Edge(j)))
		}
	}
	return d
}
