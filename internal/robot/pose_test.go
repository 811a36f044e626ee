package robot

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/world"
)

func TestPositionRoundTrip(t *testing.T) {
	points := []r2.Point{
		{X: 0, Y: 0},
		{X: 0.1 + 0.2, Y: -1.0 / 3},
		{X: 1e-300, Y: 123456789.123456789},
		{X: math.Nextafter(1, 2), Y: -0.0},
	}
	for _, p := range points {
		s := FormatPosition(p)
		got, err := ParsePosition(s)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", s, err)
		}
		if got != p {
			t.Errorf("expected %v, got %v (via %q)", p, got, s)
		}
	}
}

func TestAngleRoundTrip(t *testing.T) {
	for _, a := range []float64{0, 359.99999999999994, 1.0 / 7} {
		got, err := ParseAngle(FormatAngle(a))
		if err != nil || got != a {
			t.Errorf("expected %v, got %v (%v)", a, got, err)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{"", "1", "1;2", "a:2", "1:2:3", "NaN:1", "1:+Inf"}
	for _, s := range tests {
		_, err := ParsePosition(s)
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Errorf("%q: expected *LoadError, got %v", s, err)
			continue
		}
		if !errors.Is(err, ErrMalformedPose) {
			t.Errorf("%q: expected ErrMalformedPose in chain, got %v", s, err)
		}
	}

	if _, err := ParseAngle("north"); !errors.Is(err, ErrMalformedPose) {
		t.Errorf("expected ErrMalformedPose for angle, got %v", err)
	}
}

func TestModelLoad(t *testing.T) {
	m := New(world.New(), SimulationConfig{Seed: 1})
	pose := Pose{Position: r2.Point{X: 12.5, Y: 300.25}, Angle: 33.3}

	if err := m.Load(pose.Record()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Pose() != pose {
		t.Errorf("expected %v, got %v", pose, m.Pose())
	}

	if err := m.Load(world.RobotRecord{Position: "12,5:300", Direction: "0"}); err == nil {
		t.Errorf("expected error for malformed position")
	}
	if m.Pose() != pose {
		t.Errorf("failed load must not move the robot, got %v", m.Pose())
	}
}
