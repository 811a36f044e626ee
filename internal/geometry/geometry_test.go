package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func near(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestDirectionVector(t *testing.T) {
	tests := []struct {
		angle    float64
		expected r2.Point
	}{
		{0, r2.Point{X: 1, Y: 0}},
		{90, r2.Point{X: 0, Y: 1}},
		{180, r2.Point{X: -1, Y: 0}},
		{270, r2.Point{X: 0, Y: -1}},
		{450, r2.Point{X: 0, Y: 1}},
	}

	for _, tt := range tests {
		if got := DirectionVector(tt.angle); !near(got, tt.expected) {
			t.Errorf("DirectionVector(%v) = %v, want %v", tt.angle, got, tt.expected)
		}
	}
}

func TestProjection(t *testing.T) {
	got := Projection(r2.Point{X: 3, Y: 4}, r2.Point{X: 2, Y: 0})
	if !near(got, r2.Point{X: 3, Y: 0}) {
		t.Errorf("expected (3,0), got %v", got)
	}

	if got := Projection(r2.Point{X: 3, Y: 4}, r2.Point{}); got != (r2.Point{}) {
		t.Errorf("projection onto zero vector should be zero, got %v", got)
	}
}

func TestNormalPoint(t *testing.T) {
	s := Segment{A: r2.Point{X: 0, Y: 0}, B: r2.Point{X: 10, Y: 0}}
	got := NormalPoint(s, r2.Point{X: 20, Y: 5})
	if !near(got, r2.Point{X: 20, Y: 0}) {
		t.Errorf("normal point should lie on the infinite line, got %v", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	s := Segment{A: r2.Point{X: 0, Y: 0}, B: r2.Point{X: 10, Y: 0}}

	tests := []struct {
		p        r2.Point
		expected float64
	}{
		{r2.Point{X: 5, Y: 3}, 3},
		{r2.Point{X: -3, Y: 4}, 5},
		{r2.Point{X: 13, Y: 0}, 3},
		{r2.Point{X: 7, Y: 0}, 0},
	}

	for _, tt := range tests {
		if got := s.Distance(tt.p); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Distance(%v) = %v, want %v", tt.p, got, tt.expected)
		}
	}
}

func TestSegmentIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{"crossing", Segment{r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10}}, Segment{r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 0}}, true},
		{"parallel", Segment{r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}}, Segment{r2.Point{X: 0, Y: 1}, r2.Point{X: 10, Y: 1}}, false},
		{"touching endpoint", Segment{r2.Point{X: 0, Y: 0}, r2.Point{X: 5, Y: 0}}, Segment{r2.Point{X: 5, Y: 0}, r2.Point{X: 5, Y: 5}}, true},
		{"collinear overlap", Segment{r2.Point{X: 0, Y: 0}, r2.Point{X: 5, Y: 0}}, Segment{r2.Point{X: 3, Y: 0}, r2.Point{X: 8, Y: 0}}, true},
		{"collinear apart", Segment{r2.Point{X: 0, Y: 0}, r2.Point{X: 2, Y: 0}}, Segment{r2.Point{X: 3, Y: 0}, r2.Point{X: 8, Y: 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayHit(t *testing.T) {
	wall := Segment{A: r2.Point{X: 10, Y: -5}, B: r2.Point{X: 10, Y: 5}}

	d, ok := wall.RayHit(r2.Point{}, r2.Point{X: 1, Y: 0})
	if !ok || math.Abs(d-10) > 1e-9 {
		t.Errorf("expected hit at 10, got %v (%v)", d, ok)
	}

	if _, ok := wall.RayHit(r2.Point{}, r2.Point{X: -1, Y: 0}); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestPolygonContains(t *testing.T) {
	sq := RectPolygon(r2.Point{X: 0, Y: 0}, 10)

	if !sq.Contains(r2.Point{X: 1, Y: 1}) {
		t.Error("center region should be inside")
	}
	if sq.Contains(r2.Point{X: 5, Y: 0}) {
		t.Error("boundary point should not be strictly inside")
	}
	if sq.Contains(r2.Point{X: 6, Y: 0}) {
		t.Error("outside point reported inside")
	}
}

func TestPolygonIntersectsAndDistance(t *testing.T) {
	a := RectPolygon(r2.Point{X: 0, Y: 0}, 10)
	b := RectPolygon(r2.Point{X: 8, Y: 0}, 10)
	c := RectPolygon(r2.Point{X: 20, Y: 0}, 10)
	inner := RectPolygon(r2.Point{X: 0, Y: 0}, 2)

	if !a.Intersects(b) {
		t.Error("overlapping squares should intersect")
	}
	if a.Intersects(c) {
		t.Error("distant squares should not intersect")
	}
	if !a.Intersects(inner) || !inner.Intersects(a) {
		t.Error("containment should count as intersection")
	}
	if d := a.Distance(c); math.Abs(d-10) > 1e-9 {
		t.Errorf("expected distance 10, got %v", d)
	}
	if d := a.Distance(b); d != 0 {
		t.Errorf("expected zero distance, got %v", d)
	}
}

func TestTruncate(t *testing.T) {
	if Truncate(0, 255, 300) != 255 || Truncate(0, 255, -4) != 0 || Truncate(0, 255, 17) != 17 {
		t.Error("Truncate does not clamp to interval")
	}
}
