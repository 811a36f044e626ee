package config

import "sort"

var Presets = map[string]*Config{
	"ideal": {
		DurationMs: 20000, SpeedFactor: 1, ApproximationLevel: 1, FPS: 33, LogLevel: "info",
	},
	"noisy": {
		DurationMs: 20000, SpeedFactor: 1, SensorNoise: true, MotorNoise: true,
		ApproximationLevel: 1, FPS: 33, LogLevel: "info",
	},
	"smooth": {
		DurationMs: 20000, SpeedFactor: 1, SensorNoise: true, MotorNoise: true,
		ApproximationLevel: 8, FPS: 33, LogLevel: "info",
	},
	"fast": {
		DurationMs: 60000, SpeedFactor: 4, ApproximationLevel: 1, FPS: 15, LogLevel: "warn",
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
