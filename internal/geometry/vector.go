package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// Epsilon is the tolerance used for "numerically zero" comparisons.
const Epsilon = 1e-9

// Eq reports whether a and b are equal within Epsilon.
func Eq(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// DirectionVector returns the unit vector for a heading given in degrees.
func DirectionVector(angle float64) r2.Point {
	rad := angle * math.Pi / 180
	return r2.Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Rotate turns p around the origin by angle degrees.
func Rotate(p r2.Point, angle float64) r2.Point {
	d := DirectionVector(angle)
	return r2.Point{X: p.X*d.X - p.Y*d.Y, Y: p.X*d.Y + p.Y*d.X}
}

// Projection returns the component of v along onto. A zero onto yields zero.
func Projection(v, onto r2.Point) r2.Point {
	n2 := onto.Dot(onto)
	if n2 < Epsilon*Epsilon {
		return r2.Point{}
	}
	return onto.Mul(v.Dot(onto) / n2)
}

// VectorProduct is the z component of a × b.
func VectorProduct(a, b r2.Point) float64 {
	return a.Cross(b)
}

// Truncate clamps v to [lo, hi].
func Truncate(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
