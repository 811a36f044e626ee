// Package world holds the static field the robot moves on: walls that block
// motion and colored floor regions seen by the color and light sensors.
package world

import (
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/geometry"
)

const (
	// SonarRange is the maximum reported distance; it doubles as the
	// "nothing detected" value.
	SonarRange = 255
	// SonarSpread is the full cone angle in degrees.
	SonarSpread = 20.0
	sonarRays   = 21
)

type World struct {
	walls   []*Wall
	regions []*Region
}

func New(walls ...*Wall) *World {
	return &World{walls: walls}
}

func (w *World) AddWall(wall *Wall)       { w.walls = append(w.walls, wall) }
func (w *World) AddRegion(region *Region) { w.regions = append(w.regions, region) }
func (w *World) WallCount() int           { return len(w.walls) }
func (w *World) Walls() []*Wall           { return w.walls }
func (w *World) Regions() []*Region       { return w.regions }

// WallAt returns nil for an index outside [0, WallCount).
func (w *World) WallAt(i int) *Wall {
	if i < 0 || i >= len(w.walls) {
		return nil
	}
	return w.walls[i]
}

func (w *World) Clear() {
	w.walls = nil
	w.regions = nil
}

// CheckCollision reports whether region touches any wall grown by half of
// strokeMargin on every side.
func (w *World) CheckCollision(region geometry.Polygon, strokeMargin float64) bool {
	for _, wall := range w.walls {
		if wall.poly.Distance(region) <= strokeMargin/2 {
			return true
		}
	}
	return false
}

// SonarReading casts a cone of rays from origin around direction (degrees)
// and returns the rounded distance to the nearest wall border, capped at
// SonarRange.
func (w *World) SonarReading(origin r2.Point, direction float64) int {
	for _, wall := range w.walls {
		if wall.Contains(origin) {
			return 0
		}
	}

	nearest := math.Inf(1)
	step := SonarSpread / float64(sonarRays-1)
	for i := 0; i < sonarRays; i++ {
		dir := geometry.DirectionVector(direction - SonarSpread/2 + float64(i)*step)
		for _, wall := range w.walls {
			for j := 0; j < 4; j++ {
				if d, ok := wall.Line(j).RayHit(origin, dir); ok && d < nearest {
					nearest = d
				}
			}
		}
	}

	if nearest >= SonarRange {
		return SonarRange
	}
	return int(math.Round(nearest))
}

// ColorAt returns the color of the top-most region covering p; the floor
// itself is white. Regions with equal Z resolve to the later one.
func (w *World) ColorAt(p r2.Point) color.RGBA {
	c := White
	bestZ := math.MinInt
	for _, r := range w.regions {
		if r.Z >= bestZ && r.Contains(p) {
			bestZ = r.Z
			c = r.Color
		}
	}
	return c
}
