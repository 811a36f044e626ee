// Package geometry provides the planar math used by the simulator.
//
// Points and vectors are [r2.Point] values. On top of them the package adds
// the operations the dynamics and sensor code need:
//
//   - [DirectionVector]: unit heading for an angle in degrees
//   - [Projection] and [NormalPoint]: vector and point projections
//   - [Segment]: line segment distance and intersection
//   - [Polygon]: convex polygon containment, intersection and distance
//
// All functions are pure and allocation-light; none of them fail.
package geometry
