package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DurationMs <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.SpeedFactor != 1 {
		t.Errorf("expected speed factor 1, got %f", cfg.SpeedFactor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("noisy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.SensorNoise || !cfg.MotorNoise {
		t.Errorf("expected noisy preset to enable both noise sources")
	}

	cfg.SpeedFactor = 99
	if GetPreset("noisy").SpeedFactor == 99 {
		t.Error("expected GetPreset to return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero duration", func(c *Config) { c.DurationMs = 0 }},
		{"negative speed", func(c *Config) { c.SpeedFactor = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robosim.yaml")
	cfg := GetPreset("smooth")
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robosim.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\nmotor_noise: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DurationMs != DefaultDurationMs || cfg.Seed != 7 || !cfg.MotorNoise {
		t.Errorf("unexpected config %+v", cfg)
	}

	sim := cfg.SimulationConfig()
	if sim.Seed != 7 || !sim.MotorNoise || sim.SensorNoise {
		t.Errorf("unexpected simulation config %+v", sim)
	}
}
