// Package metrics summarizes a run from the per-tick robot snapshots.
package metrics

import "github.com/san-kum/robosim/internal/robot"

type Metric interface {
	Name() string
	Observe(s robot.Snapshot)
	Value() float64
	Reset()
}

// Set feeds every snapshot to a group of metrics. It is a robot.Observer.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default is the set recorded with every stored run.
func Default() *Set {
	return NewSet(NewDistance(), NewPeakSpeed(), NewEnergy(), NewMotorEffort(), NewContactRatio())
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Set) OnTick(snap robot.Snapshot) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}
