package robot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/world"
)

// Pose is the body center and heading in degrees.
type Pose struct {
	Position r2.Point
	Angle    float64
}

// FormatPosition renders "x:y" with the shortest representation that
// parses back to the same float64 values.
func FormatPosition(p r2.Point) string {
	return formatFloat(p.X) + ":" + formatFloat(p.Y)
}

func ParsePosition(s string) (r2.Point, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return r2.Point{}, &LoadError{Field: "position", Value: s, Err: fmt.Errorf("%w: want x:y", ErrMalformedPose)}
	}
	x, err := parseFloat(parts[0])
	if err != nil {
		return r2.Point{}, &LoadError{Field: "position", Value: s, Err: err}
	}
	y, err := parseFloat(parts[1])
	if err != nil {
		return r2.Point{}, &LoadError{Field: "position", Value: s, Err: err}
	}
	return r2.Point{X: x, Y: y}, nil
}

func FormatAngle(angle float64) string {
	return formatFloat(angle)
}

func ParseAngle(s string) (float64, error) {
	a, err := parseFloat(s)
	if err != nil {
		return 0, &LoadError{Field: "direction", Value: s, Err: err}
	}
	return a, nil
}

// Record is the persisted form of the pose.
func (p Pose) Record() world.RobotRecord {
	return world.RobotRecord{Position: FormatPosition(p.Position), Direction: FormatAngle(p.Angle)}
}

func PoseFromRecord(rec world.RobotRecord) (Pose, error) {
	pos, err := ParsePosition(rec.Position)
	if err != nil {
		return Pose{}, err
	}
	angle, err := ParseAngle(rec.Direction)
	if err != nil {
		return Pose{}, err
	}
	return Pose{Position: pos, Angle: angle}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPose, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrMalformedPose, s)
	}
	return v, nil
}
