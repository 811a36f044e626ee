package noise

import (
	"math"
	"testing"
)

func TestGenerateBounded(t *testing.T) {
	g := New(1)

	for _, level := range []uint{0, 1, 3, 10} {
		for i := 0; i < 5000; i++ {
			v := g.Generate(level, 2.5)
			if math.Abs(v) > 2.5 {
				t.Fatalf("level %d: deviate %f outside dispersion", level, v)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		if a.Generate(4, 1) != b.Generate(4, 1) {
			t.Fatal("same seed should produce the same sequence")
		}
	}
}

func TestHigherLevelIsSmoother(t *testing.T) {
	variance := func(level uint) float64 {
		g := New(7)
		sum, sumSq := 0.0, 0.0
		n := 20000
		for i := 0; i < n; i++ {
			v := g.Generate(level, 1)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(n)
		return sumSq/float64(n) - mean*mean
	}

	v1 := variance(1)
	v8 := variance(8)
	if v8 >= v1 {
		t.Errorf("expected variance to shrink with level: level1=%f level8=%f", v1, v8)
	}
	if math.Abs(v1-1.0/3.0) > 0.02 {
		t.Errorf("uniform variance should be ~1/3, got %f", v1)
	}
}

func TestApproximationLevelFloor(t *testing.T) {
	g := New(1)
	g.SetApproximationLevel(0)
	if g.ApproximationLevel() != 1 {
		t.Errorf("expected level 1, got %d", g.ApproximationLevel())
	}
	if v := g.Draw(0); v != 0 {
		t.Errorf("zero dispersion should yield zero, got %f", v)
	}
}
