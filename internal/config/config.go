package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/robosim/internal/robot"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDurationMs  = 20000
	DefaultSpeedFactor = 1.0
	DefaultApproxLevel = 1
	DefaultFPS         = 33
	DefaultLogLevel    = "info"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	DurationMs         int     `yaml:"duration_ms"`
	SpeedFactor        float64 `yaml:"speed_factor"`
	SensorNoise        bool    `yaml:"sensor_noise"`
	MotorNoise         bool    `yaml:"motor_noise"`
	ApproximationLevel uint    `yaml:"approximation_level"`
	Seed               int64   `yaml:"seed"`
	World              string  `yaml:"world"`
	Program            string  `yaml:"program"`
	LogLevel           string  `yaml:"log_level"`
	LogJSON            bool    `yaml:"log_json"`
	FPS                int     `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		DurationMs:         DefaultDurationMs,
		SpeedFactor:        DefaultSpeedFactor,
		ApproximationLevel: DefaultApproxLevel,
		FPS:                DefaultFPS,
		LogLevel:           DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.DurationMs <= 0:
		return fmt.Errorf("%w: duration_ms must be positive, got %d", ErrInvalidConfig, c.DurationMs)
	case c.SpeedFactor <= 0:
		return fmt.Errorf("%w: speed_factor must be positive, got %g", ErrInvalidConfig, c.SpeedFactor)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	return nil
}

// SimulationConfig is the part of the config the robot model consumes.
func (c *Config) SimulationConfig() robot.SimulationConfig {
	return robot.SimulationConfig{
		SensorNoise:             c.SensorNoise,
		MotorNoise:              c.MotorNoise,
		NoiseApproximationLevel: c.ApproximationLevel,
		Seed:                    c.Seed,
	}
}
