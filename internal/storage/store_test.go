package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/world"
)

func testSamples() []Sample {
	return []Sample{
		{Time: 5, X: 100, Y: 100, Angle: 0},
		{Time: 10, X: 100.25, Y: 100, Angle: 0.5, Vx: 0.05, Omega: 0.001, Encoders: [3]float64{1.5, 0, 1.5}},
		{Time: 15, X: 1.0 / 3, Y: -2e-9, Angle: 359.75, Touching: true},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		World:      "arena.yaml",
		Seed:       42,
		DurationMs: 15,
		Ticks:      3,
		Metrics:    map[string]float64{"distance": 1.5},
	}

	runID, err := st.Save(meta, testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if loaded.World != "arena.yaml" {
		t.Errorf("expected world 'arena.yaml', got '%s'", loaded.World)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", loaded.Samples)
	}
	if loaded.Metrics["distance"] != 1.5 {
		t.Errorf("expected distance 1.5, got %f", loaded.Metrics["distance"])
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	want := testSamples()
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: expected %+v, got %+v", i, want[i], samples[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(RunMetadata{Seed: 1}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Seed: 2}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Error("expected distinct run ids")
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != 1 || runs[1].Seed != 2 {
		t.Errorf("expected runs oldest first, got seeds %d, %d", runs[0].Seed, runs[1].Seed)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(2)
	for tick := int64(1); tick <= 5; tick++ {
		rec.OnTick(robot.Snapshot{
			Tick: tick,
			Time: float64(tick) * robot.TimeInterval,
			Pose: robot.Pose{Position: r2.Point{X: float64(tick), Y: 0}},
		})
	}

	samples := rec.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Time != 10 || samples[1].X != 4 {
		t.Errorf("unexpected samples %+v", samples)
	}

	rec.Reset()
	if len(rec.Samples()) != 0 {
		t.Error("expected empty recorder after reset")
	}

	rec.OnTick(robot.Snapshot{Tick: 2, Pose: robot.Pose{Position: r2.Point{X: 99}}})
	if samples[0].X != 2 || samples[1].X != 4 {
		t.Errorf("expected earlier samples untouched by a new recording, got %+v", samples)
	}
}

func TestRecorderOnModel(t *testing.T) {
	m := robot.New(world.New(), robot.SimulationConfig{Seed: 1})
	m.SetStartPose(robot.Pose{Position: r2.Point{X: 200, Y: 200}})
	rec := NewRecorder(1)
	m.AddObserver(rec)

	if err := m.SetMotor(50, 0, robot.PortA, false); err != nil {
		t.Fatal(err)
	}
	if err := m.SetMotor(50, 0, robot.PortB, false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		m.Tick()
	}

	samples := rec.Samples()
	if len(samples) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(samples))
	}
	last := samples[len(samples)-1]
	if last.X <= 200 {
		t.Errorf("expected robot to move forward, got x=%f", last.X)
	}
	if last.Encoders[robot.PortA] <= 0 {
		t.Errorf("expected encoder A to advance, got %f", last.Encoders[robot.PortA])
	}
}

func TestReadTrajectoryCorrupt(t *testing.T) {
	if _, err := ReadTrajectory(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Error("expected error for corrupt stream")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "abc"}, testSamples()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.ID != "abc" || data.Steps != 3 || len(data.Samples) != 3 {
		t.Errorf("unexpected export %+v", data)
	}
}
