package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

type Segment struct {
	A, B r2.Point
}

func (s Segment) Vector() r2.Point { return s.B.Sub(s.A) }
func (s Segment) Length() float64  { return s.Vector().Norm() }

// Direction is the unit vector from A to B, zero for a degenerate segment.
func (s Segment) Direction() r2.Point {
	return s.Vector().Normalize()
}

// NormalPoint projects p onto the infinite line through the segment.
func NormalPoint(s Segment, p r2.Point) r2.Point {
	d := s.Vector()
	n2 := d.Dot(d)
	if n2 < Epsilon*Epsilon {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / n2
	return s.A.Add(d.Mul(t))
}

// ClosestPoint returns the point of the segment nearest to p.
func (s Segment) ClosestPoint(p r2.Point) r2.Point {
	d := s.Vector()
	n2 := d.Dot(d)
	if n2 < Epsilon*Epsilon {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / n2
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(d.Mul(t))
}

// Distance is the euclidean distance from p to the segment.
func (s Segment) Distance(p r2.Point) float64 {
	return p.Sub(s.ClosestPoint(p)).Norm()
}

func orientation(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(s Segment, p r2.Point) bool {
	return p.X >= math.Min(s.A.X, s.B.X)-Epsilon && p.X <= math.Max(s.A.X, s.B.X)+Epsilon &&
		p.Y >= math.Min(s.A.Y, s.B.Y)-Epsilon && p.Y <= math.Max(s.A.Y, s.B.Y)+Epsilon
}

// Intersects reports whether the two closed segments share a point.
func (s Segment) Intersects(o Segment) bool {
	d1 := orientation(o.A, o.B, s.A)
	d2 := orientation(o.A, o.B, s.B)
	d3 := orientation(s.A, s.B, o.A)
	d4 := orientation(s.A, s.B, o.B)

	if ((d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon)) &&
		((d3 > Epsilon && d4 < -Epsilon) || (d3 < -Epsilon && d4 > Epsilon)) {
		return true
	}

	switch {
	case math.Abs(d1) <= Epsilon && onSegment(o, s.A):
		return true
	case math.Abs(d2) <= Epsilon && onSegment(o, s.B):
		return true
	case math.Abs(d3) <= Epsilon && onSegment(s, o.A):
		return true
	case math.Abs(d4) <= Epsilon && onSegment(s, o.B):
		return true
	}
	return false
}

// SegmentDistance is zero for intersecting segments, otherwise the smallest
// endpoint-to-segment distance.
func SegmentDistance(s, o Segment) float64 {
	if s.Intersects(o) {
		return 0
	}
	return math.Min(
		math.Min(o.Distance(s.A), o.Distance(s.B)),
		math.Min(s.Distance(o.A), s.Distance(o.B)),
	)
}

// RayHit returns the distance along the ray origin+t*dir (dir normalized)
// at which it crosses the segment.
func (s Segment) RayHit(origin, dir r2.Point) (float64, bool) {
	v := s.Vector()
	denom := dir.Cross(v)
	if math.Abs(denom) < Epsilon {
		return 0, false
	}
	w := s.A.Sub(origin)
	t := w.Cross(v) / denom
	u := w.Cross(dir) / denom
	if t < 0 || u < -Epsilon || u > 1+Epsilon {
		return 0, false
	}
	return t, true
}
