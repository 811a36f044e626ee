package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/world"
)

func samples() []storage.Sample {
	return []storage.Sample{
		{Time: 5, X: 100, Y: 100},
		{Time: 10, X: 120, Y: 110, Vx: 0.03},
		{Time: 15, X: 140, Y: 130, Touching: true},
	}
}

func TestTrajectoryPNG(t *testing.T) {
	w := world.Arena(400, 300, 10)
	w.AddRegion(&world.Region{
		Shape:  world.ShapeEllipse,
		Points: []r2.Point{{X: 50, Y: 50}, {X: 90, Y: 80}},
		Color:  world.Red,
	})
	w.AddRegion(&world.Region{
		Shape:  world.ShapeLine,
		Points: []r2.Point{{X: 20, Y: 200}, {X: 300, Y: 200}},
		Width:  8,
		Color:  world.Black,
	})

	p, err := Trajectory(w, samples(), "arena")
	if err != nil {
		t.Fatalf("plot failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, p, 4, 3); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
}

func TestTrajectoryEmpty(t *testing.T) {
	if _, err := Trajectory(nil, nil, ""); !errors.Is(err, ErrEmptyTrajectory) {
		t.Errorf("expected ErrEmptyTrajectory, got %v", err)
	}
}

func TestTimeSeries(t *testing.T) {
	if _, err := TimeSeries(samples(), "bogus"); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("expected ErrUnknownChannel, got %v", err)
	}

	for name := range Channels {
		if _, err := TimeSeries(samples(), name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestSave(t *testing.T) {
	p, err := TimeSeries(samples(), "x")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for _, name := range []string{"x.png", "x.svg"} {
		path := filepath.Join(dir, "out", name)
		if err := Save(p, 4, 3, path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s: expected non-empty file", name)
		}
	}
}
