package metrics

import "github.com/san-kum/robosim/internal/robot"

// ContactRatio is the fraction of ticks spent touching a wall.
type ContactRatio struct {
	name     string
	contacts int
	samples  int
}

func NewContactRatio() *ContactRatio {
	return &ContactRatio{
		name: "contact_ratio",
	}
}

func (c *ContactRatio) Name() string {
	return c.name
}

func (c *ContactRatio) Observe(s robot.Snapshot) {
	c.samples++
	if s.Touching {
		c.contacts++
	}
}

func (c *ContactRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.contacts) / float64(c.samples)
}

func (c *ContactRatio) Reset() {
	c.contacts = 0
	c.samples = 0
}
