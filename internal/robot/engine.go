package robot

import (
	"fmt"
	"strings"
)

type Port int

const (
	PortA Port = iota
	PortB
	PortC
)

const EngineCount = 3

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	case PortC:
		return "C"
	default:
		return fmt.Sprintf("Port(%d)", int(p))
	}
}

func (p Port) Valid() bool {
	return p >= PortA && p <= PortC
}

// ParsePort accepts "A", "B" or "C" in any case.
func ParsePort(s string) (Port, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return PortA, nil
	case "B":
		return PortB, nil
	case "C":
		return PortC, nil
	}
	return 0, &ConfigurationError{Setting: "motor port", Value: s, Err: ErrUnknownPort}
}

// Mode says how a motor decides when to stop on its own.
type Mode int

const (
	Infinite Mode = iota
	ByLimit
	Finished
)

func (m Mode) String() string {
	switch m {
	case Infinite:
		return "infinite"
	case ByLimit:
		return "limit"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Engine is the state of one motor. Speed is the commanded power in
// percent, Spoiled the noisy value actually applied this tick.
type Engine struct {
	Speed   int
	Spoiled int
	Mode    Mode
	// Degrees is the turnover limit for ByLimit mode.
	Degrees  int
	Progress float64
	// Turnover is the signed encoder value in degrees.
	Turnover float64
	Brake    bool
	Used     bool
	// Factor ramps traction from 0 to 1 after a start from rest.
	Factor float64
}

// idleEngines is the power-on state: every motor stopped with the brake
// engaged.
func idleEngines() [EngineCount]Engine {
	var engines [EngineCount]Engine
	for i := range engines {
		engines[i].Brake = true
	}
	return engines
}

func (e *Engine) ramp() {
	if e.Speed == 0 || e.Factor >= 1 {
		return
	}
	e.Factor += 1.0 / RampTicks
	if e.Factor > 1 {
		e.Factor = 1
	}
}

func (e *Engine) halt() {
	e.Speed = 0
	e.Spoiled = 0
	e.Factor = 0
}

// ActivePair picks the two engines that drive the wheels. A and B by
// default; C replaces whichever of them is unused.
func ActivePair(engines [EngineCount]Engine) (Port, Port) {
	left, right := PortA, PortB
	if engines[PortC].Used {
		switch {
		case !engines[PortA].Used:
			left = PortC
		case !engines[PortB].Used:
			right = PortC
		}
	}
	return left, right
}
