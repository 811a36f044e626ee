// Package sensors configures the robot's four sensor ports and turns the
// world around the robot into sensor readings.
package sensors

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/world"
)

// Ports are numbered 1 through PortCount.
const PortCount = 4

var ErrUnknownSensorType = errors.New("sensors: unknown sensor type")

type Type int

const (
	Unused Type = iota
	TouchBoolean
	TouchRaw
	Sonar
	Light
	ColorFull
	ColorRed
	ColorGreen
	ColorBlue
	ColorNone
)

var typeNames = map[Type]string{
	Unused:       "unused",
	TouchBoolean: "touch",
	TouchRaw:     "touch_raw",
	Sonar:        "sonar",
	Light:        "light",
	ColorFull:    "color",
	ColorRed:     "color_red",
	ColorGreen:   "color_green",
	ColorBlue:    "color_blue",
	ColorNone:    "color_none",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) IsTouch() bool { return t == TouchBoolean || t == TouchRaw }

func (t Type) IsColor() bool { return t >= ColorFull && t <= ColorNone }

func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unused, nil
	}
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return Unused, &robot.ConfigurationError{Setting: "sensor type", Value: s, Err: ErrUnknownSensorType}
}

// TypeNames lists the accepted sensor type names in sorted order.
func TypeNames() []string {
	names := make([]string, 0, len(typeNames))
	for _, name := range typeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mount places a sensor on the body: Offset is in the robot frame with +X
// pointing forward, Rotation is relative to the robot heading.
type Mount struct {
	Offset   r2.Point
	Rotation float64
}

// DefaultMount puts distance and touch sensors on the front face and
// floor-facing sensors a little behind it.
func DefaultMount(t Type) Mount {
	switch {
	case t == Light || t.IsColor():
		return Mount{Offset: r2.Point{X: 20}}
	case t == Unused:
		return Mount{}
	default:
		return Mount{Offset: r2.Point{X: robot.RobotWidth / 2}}
	}
}

type slot struct {
	typ   Type
	mount Mount
}

// Configuration maps ports to sensor types and mounts.
type Configuration struct {
	slots [PortCount]slot
}

func NewConfiguration() *Configuration {
	return &Configuration{}
}

func checkPort(port int) error {
	if port < 1 || port > PortCount {
		return &robot.ConfigurationError{Setting: "sensor port", Value: strconv.Itoa(port), Err: robot.ErrUnknownPort}
	}
	return nil
}

// Set assigns a type to the port and resets its mount to the default for
// that type.
func (c *Configuration) Set(port int, t Type) error {
	if err := checkPort(port); err != nil {
		return err
	}
	if _, ok := typeNames[t]; !ok {
		return &robot.ConfigurationError{Setting: "sensor type", Value: t.String(), Err: ErrUnknownSensorType}
	}
	c.slots[port-1] = slot{typ: t, mount: DefaultMount(t)}
	return nil
}

func (c *Configuration) SetMount(port int, m Mount) error {
	if err := checkPort(port); err != nil {
		return err
	}
	c.slots[port-1].mount = m
	return nil
}

// Type returns Unused for ports outside the valid range.
func (c *Configuration) Type(port int) Type {
	if checkPort(port) != nil {
		return Unused
	}
	return c.slots[port-1].typ
}

func (c *Configuration) Mount(port int) Mount {
	if checkPort(port) != nil {
		return Mount{}
	}
	return c.slots[port-1].mount
}

// FromRecords builds a configuration from the sensors section of a world
// file.
func FromRecords(records map[int]world.SensorRecord) (*Configuration, error) {
	c := NewConfiguration()
	for port, rec := range records {
		t, err := ParseType(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("sensor %d: %w", port, err)
		}
		if err := c.Set(port, t); err != nil {
			return nil, err
		}
		m := c.Mount(port)
		if rec.Offset != nil {
			m.Offset = rec.Offset.R2()
		}
		m.Rotation = rec.Rotation
		if err := c.SetMount(port, m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Configuration) Records() map[int]world.SensorRecord {
	out := make(map[int]world.SensorRecord)
	for i, s := range c.slots {
		if s.typ == Unused {
			continue
		}
		off := world.PointOf(s.mount.Offset)
		out[i+1] = world.SensorRecord{Type: s.typ.String(), Offset: &off, Rotation: s.mount.Rotation}
	}
	return out
}
