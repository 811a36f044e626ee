package control

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownParam = errors.New("control: unknown parameter")

type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	// Limit clamps the integral term when positive.
	Limit float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Update feeds one measurement taken dt after the previous one and
// returns the control output.
func (p *PID) Update(measurement, dt float64) float64 {
	err := p.Target - measurement

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.Kp * err
	}

	p.integral += err * dt
	if p.Limit > 0 && p.Ki != 0 {
		bound := p.Limit / math.Abs(p.Ki)
		p.integral = math.Max(-bound, math.Min(bound, p.integral))
	}
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Reset forgets the accumulated error history.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// Params returns the tunable gains and setpoint by name.
func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts one of the parameters reported by Params.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}
