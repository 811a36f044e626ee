package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newSessionCmd(t *testing.T) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSessionFlags(cmd)
	return cmd
}

func TestLoadConfigLayers(t *testing.T) {
	cmd := newSessionCmd(t)
	preset = "noisy"
	if err := cmd.Flags().Set("duration", "500"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("motor-noise", "false"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DurationMs != 500 {
		t.Errorf("expected duration 500, got %d", cfg.DurationMs)
	}
	if !cfg.SensorNoise || cfg.MotorNoise {
		t.Errorf("expected preset sensor noise and flag motor noise, got %+v", cfg)
	}
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	cmd := newSessionCmd(t)
	preset = "bogus"
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestInitWorldThenLoadSetup(t *testing.T) {
	dir := t.TempDir()
	if err := initWorld(nil, []string{dir}); err != nil {
		t.Fatal(err)
	}
	if err := initWorld(nil, []string{dir}); err == nil {
		t.Error("expected refusal to overwrite")
	}

	cmd := newSessionCmd(t)
	configFile = filepath.Join(dir, "robosim.yaml")
	setup, err := loadSetup(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if setup.Program == nil || setup.World == nil {
		t.Fatalf("expected world and program from %s", configFile)
	}
	if _, err := os.Stat(setup.WorldName); err != nil {
		t.Errorf("expected world path, got %q", setup.WorldName)
	}
}
