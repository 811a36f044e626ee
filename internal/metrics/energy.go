package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/robot"
)

// Energy is the mean kinetic energy of the body, translational plus
// rotational, in model units.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s robot.Snapshot) {
	v := s.Velocity.Norm()
	omega := s.AngularVelocity * math.Pi / 180
	e.totalEnergy += 0.5*robot.Mass*v*v + 0.5*robot.Inertia*omega*omega
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakSpeed is the highest linear speed seen, in px/s.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s robot.Snapshot) {
	p.peak = math.Max(p.peak, s.Velocity.Norm()*1000)
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }
