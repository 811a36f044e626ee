package robot

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPort   = errors.New("robot: unknown port")
	ErrMalformedPose = errors.New("robot: malformed pose")
)

// ConfigurationError reports a setup value that cannot be used, such as a
// port outside the robot's range or an unknown sensor type.
type ConfigurationError struct {
	Setting string
	Value   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Setting, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LoadError reports persisted state that could not be parsed.
type LoadError struct {
	Field string
	Value string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
