// Package noise produces the bounded random perturbations used to spoil
// motor speeds and sensor readings.
package noise

import (
	"math/rand"
	"time"
)

// Generator draws deviates in [-dispersion, dispersion]. The approximation
// level is the number of uniform draws averaged per deviate: higher levels
// concentrate the distribution around zero and make it closer to normal.
type Generator struct {
	rnd   *rand.Rand
	level uint
}

func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), level: 1}
}

// NewUnseeded seeds from the wall clock.
func NewUnseeded() *Generator {
	return New(time.Now().UnixNano())
}

func (g *Generator) ApproximationLevel() uint { return g.level }

func (g *Generator) SetApproximationLevel(level uint) {
	if level == 0 {
		level = 1
	}
	g.level = level
}

// Generate returns the mean of level uniform draws on [-1, 1] scaled by
// dispersion. A zero level is treated as one.
func (g *Generator) Generate(level uint, dispersion float64) float64 {
	if level == 0 {
		level = 1
	}
	sum := 0.0
	for i := uint(0); i < level; i++ {
		sum += 2*g.rnd.Float64() - 1
	}
	return sum / float64(level) * dispersion
}

// Draw uses the generator's configured approximation level.
func (g *Generator) Draw(dispersion float64) float64 {
	return g.Generate(g.level, dispersion)
}
