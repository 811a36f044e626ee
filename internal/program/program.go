// Package program runs scripted robot behaviour: a YAML list of motor
// commands and waits executed against the simulation one tick at a time.
package program

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sensors"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("program: unknown action")

// Action names accepted in a step.
const (
	ActionMotor      = "motor"
	ActionStop       = "stop"
	ActionWait       = "wait"
	ActionWaitTouch  = "wait_touch"
	ActionWaitSonar  = "wait_sonar"
	ActionWaitLight  = "wait_light"
	ActionWaitColor  = "wait_color"
	ActionWaitMotors = "wait_motors"
	ActionBeep       = "beep"
	ActionFollowLine = "follow_line"
)

// Program is a named sequence of steps.
type Program struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single instruction. Which fields matter depends on Action.
type Step struct {
	Action    string `yaml:"action"`
	Ports     string `yaml:"ports,omitempty"`
	Speed     int    `yaml:"speed,omitempty"`
	Degrees   int    `yaml:"degrees,omitempty"`
	Brake     bool   `yaml:"brake,omitempty"`
	Duration  int    `yaml:"duration_ms,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	Below     *int   `yaml:"below,omitempty"`
	Above     *int   `yaml:"above,omitempty"`
	Color     string `yaml:"color,omitempty"`
	Frequency uint   `yaml:"frequency,omitempty"`

	// follow_line: hold the light reading at Target by steering the
	// two motors in Ports (left first) around the base Speed.
	Target int     `yaml:"target,omitempty"`
	Kp     float64 `yaml:"kp,omitempty"`
	Ki     float64 `yaml:"ki,omitempty"`
	Kd     float64 `yaml:"kd,omitempty"`
}

// Load reads a program from a YAML file
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses and validates a program.
func Decode(data []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func Save(path string, p *Program) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p *Program) Validate() error {
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Action {
	case ActionMotor:
		if _, err := s.motorPorts(); err != nil {
			return err
		}
		if s.Speed < -robot.MaxSpeed || s.Speed > robot.MaxSpeed {
			return fmt.Errorf("speed %d outside [-%d, %d]", s.Speed, robot.MaxSpeed, robot.MaxSpeed)
		}
	case ActionStop, ActionWaitMotors:
	case ActionWait, ActionBeep:
		if s.Duration <= 0 {
			return fmt.Errorf("%s needs a positive duration_ms", s.Action)
		}
	case ActionWaitTouch:
		return checkSensorPort(s.Port)
	case ActionWaitSonar, ActionWaitLight:
		if err := checkSensorPort(s.Port); err != nil {
			return err
		}
		if (s.Below == nil) == (s.Above == nil) {
			return fmt.Errorf("%s needs exactly one of below or above", s.Action)
		}
	case ActionWaitColor:
		if err := checkSensorPort(s.Port); err != nil {
			return err
		}
		if _, ok := sensors.ColorCode(s.Color); !ok {
			return fmt.Errorf("unknown color %q", s.Color)
		}
	case ActionFollowLine:
		ports, err := s.motorPorts()
		if err != nil {
			return err
		}
		if len(ports) != 2 || ports[0] == ports[1] {
			return fmt.Errorf("follow_line needs two distinct ports, got %q", s.Ports)
		}
		if s.Speed < -robot.MaxSpeed || s.Speed > robot.MaxSpeed {
			return fmt.Errorf("speed %d outside [-%d, %d]", s.Speed, robot.MaxSpeed, robot.MaxSpeed)
		}
		if s.Duration <= 0 {
			return fmt.Errorf("%s needs a positive duration_ms", s.Action)
		}
		return checkSensorPort(s.Port)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, s.Action)
	}
	return nil
}

func (s Step) motorPorts() ([]robot.Port, error) {
	if s.Ports == "" {
		return nil, fmt.Errorf("motor needs ports")
	}
	ports := make([]robot.Port, 0, len(s.Ports))
	for _, r := range strings.ToUpper(s.Ports) {
		p, err := robot.ParsePort(string(r))
		if err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func checkSensorPort(port int) error {
	if port < 1 || port > sensors.PortCount {
		return &robot.ConfigurationError{Setting: "sensor port", Value: fmt.Sprint(port), Err: robot.ErrUnknownPort}
	}
	return nil
}

// Example is the program written by `robosim init-world`: drive forward
// until the bumper hits something, back off, turn and stop.
func Example() *Program {
	threshold := 30
	return &Program{
		Name:        "bump-and-turn",
		Description: "drive until the bumper is pressed, reverse, then turn",
		Steps: []Step{
			{Action: ActionMotor, Ports: "AB", Speed: 60},
			{Action: ActionWaitTouch, Port: 1},
			{Action: ActionBeep, Frequency: 880, Duration: 200},
			{Action: ActionMotor, Ports: "AB", Speed: -40, Degrees: 360},
			{Action: ActionWaitMotors},
			{Action: ActionMotor, Ports: "A", Speed: 50, Degrees: 180},
			{Action: ActionMotor, Ports: "B", Speed: -50, Degrees: 180},
			{Action: ActionWaitMotors},
			{Action: ActionMotor, Ports: "AB", Speed: 50},
			{Action: ActionWaitSonar, Port: 2, Below: &threshold},
			{Action: ActionStop},
		},
	}
}
