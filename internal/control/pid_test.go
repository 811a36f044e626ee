package control

import (
	"errors"
	"math"
	"testing"
)

func TestPIDProportional(t *testing.T) {
	p := NewPID(2, 0, 0, 50)
	if u := p.Update(40, 5); u != 20 {
		t.Errorf("expected 20, got %f", u)
	}
	if u := p.Update(60, 5); u != -20 {
		t.Errorf("expected -20, got %f", u)
	}
}

func TestPIDIntegralAndDerivative(t *testing.T) {
	p := NewPID(0, 1, 1, 10)

	// first update has no history
	if u := p.Update(0, 5); u != 0 {
		t.Errorf("expected 0 on first update, got %f", u)
	}
	// err stays 10: integral 50, derivative 0
	if u := p.Update(0, 5); u != 50 {
		t.Errorf("expected 50, got %f", u)
	}
	// err drops to 5: integral 75, derivative -1
	if u := p.Update(5, 5); u != 74 {
		t.Errorf("expected 74, got %f", u)
	}
}

func TestPIDIntegralLimit(t *testing.T) {
	p := NewPID(0, 2, 0, 10)
	p.Limit = 30
	for i := 0; i < 100; i++ {
		p.Update(0, 5)
	}
	if u := p.Update(0, 5); math.Abs(u-30) > 1e-9 {
		t.Errorf("expected output clamped to 30, got %f", u)
	}
}

func TestPIDReset(t *testing.T) {
	p := NewPID(1, 1, 0, 10)
	p.Update(0, 5)
	p.Update(0, 5)
	p.Reset()
	if u := p.Update(0, 5); u != 10 {
		t.Errorf("expected proportional-only output after reset, got %f", u)
	}
}

func TestPIDSetParam(t *testing.T) {
	p := NewPID(1, 0, 0, 0)
	if err := p.SetParam("Kp", 3); err != nil {
		t.Fatal(err)
	}
	if err := p.SetParam("Target", 7); err != nil {
		t.Fatal(err)
	}
	if err := p.SetParam("bogus", 9); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	params := p.Params()
	if params["Kp"] != 3 || params["Target"] != 7 {
		t.Errorf("unexpected params %v", params)
	}
}
