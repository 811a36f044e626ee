package world

import (
	"fmt"
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/geometry"
)

type Shape int

const (
	ShapePolygon Shape = iota
	ShapeLine
	ShapeEllipse
)

func (s Shape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "polygon"
	}
}

func ParseShape(s string) (Shape, error) {
	switch s {
	case "polygon", "":
		return ShapePolygon, nil
	case "line":
		return ShapeLine, nil
	case "ellipse":
		return ShapeEllipse, nil
	default:
		return ShapePolygon, fmt.Errorf("unknown region shape %q", s)
	}
}

// Region is a colored marking on the floor. Lines use Points as a polyline
// of the given Width; ellipses use the bounding box of the first two Points.
type Region struct {
	Shape  Shape
	Points []r2.Point
	Width  float64
	Color  color.RGBA
	Z      int
}

func (r *Region) Contains(p r2.Point) bool {
	switch r.Shape {
	case ShapeLine:
		for i := 0; i+1 < len(r.Points); i++ {
			s := geometry.Segment{A: r.Points[i], B: r.Points[i+1]}
			if s.Distance(p) <= r.Width/2 {
				return true
			}
		}
		return false
	case ShapeEllipse:
		if len(r.Points) < 2 {
			return false
		}
		box := r2.RectFromPoints(r.Points[0], r.Points[1])
		c, size := box.Center(), box.Size()
		if size.X == 0 || size.Y == 0 {
			return false
		}
		dx := (p.X - c.X) / (size.X / 2)
		dy := (p.Y - c.Y) / (size.Y / 2)
		return dx*dx+dy*dy <= 1
	default:
		return geometry.Polygon(r.Points).Contains(p)
	}
}
