package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/robot"
)

// MotorEffort is the mean absolute power applied by the motors in use.
type MotorEffort struct {
	name    string
	sum     float64
	samples int
}

func NewMotorEffort() *MotorEffort {
	return &MotorEffort{
		name: "motor_effort",
	}
}

func (c *MotorEffort) Name() string {
	return c.name
}

func (c *MotorEffort) Observe(s robot.Snapshot) {
	for _, e := range s.Engines {
		if e.Used {
			c.sum += math.Abs(float64(e.Spoiled))
		}
	}
	c.samples++
}

func (c *MotorEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *MotorEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
