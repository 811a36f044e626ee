package metrics

import (
	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/robot"
)

// Distance is the path length travelled by the body center.
type Distance struct {
	name    string
	last    r2.Point
	started bool
	total   float64
}

func NewDistance() *Distance {
	return &Distance{name: "distance"}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(s robot.Snapshot) {
	if d.started {
		d.total += s.Pose.Position.Sub(d.last).Norm()
	}
	d.last = s.Pose.Position
	d.started = true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.total = 0
	d.started = false
}
