package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/geo/r2"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/program"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/world"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col, r := range c.Grid[0] {
		if r != 0x2809 {
			t.Errorf("col %d: expected top row dots, got %U", col, r)
		}
	}
}

func TestViewportKeepsAspect(t *testing.T) {
	c := NewCanvas(50, 10)
	v := NewViewport(r2.RectFromPoints(r2.Point{}, r2.Point{X: 100, Y: 100}), c)

	x0, y0 := v.Project(r2.Point{})
	x1, y1 := v.Project(r2.Point{X: 100, Y: 100})
	if y0 != 0 || y1 != 39 {
		t.Errorf("expected full height 0..39, got %d..%d", y0, y1)
	}
	if x1-x0 != 39 {
		t.Errorf("expected square projection, got width %d", x1-x0)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeClassic.Name {
		t.Error("expected classic fallback")
	}
	th := ThemeClassic
	for range Themes {
		th = NextTheme(th)
	}
	if th.Name != ThemeClassic.Name {
		t.Errorf("expected cycle back to classic, got %s", th.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("expected a name per theme")
	}
}

func TestSparkline(t *testing.T) {
	if s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 4); s != "▁▃▅█" {
		t.Errorf("expected last four values rescaled, got %q", s)
	}
	if s := Sparkline(nil, 3); s != "───" {
		t.Errorf("expected flat line, got %q", s)
	}
}

func TestPlotChannel(t *testing.T) {
	samples := []storage.Sample{{Time: 5, X: 1}, {Time: 10, X: 2}, {Time: 15, X: 4}}
	out, err := PlotChannel(samples, "x", 20, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x over") {
		t.Errorf("expected caption, got %q", out)
	}

	if _, err := PlotChannel(samples, "nope", 20, 5); !errors.Is(err, export.ErrUnknownChannel) {
		t.Errorf("expected ErrUnknownChannel, got %v", err)
	}
	if _, err := PlotChannel(nil, "x", 20, 5); !errors.Is(err, export.ErrEmptyTrajectory) {
		t.Errorf("expected ErrEmptyTrajectory, got %v", err)
	}
}

func newLive(t *testing.T) Live {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	s, err := sim.New(sim.Setup{World: world.ExampleFile(), Program: program.Example(), Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	return NewLive(s, "classic")
}

func TestLiveAdvancesOnFrames(t *testing.T) {
	m := newLive(t)
	m.Init()

	start := time.Now()
	var model tea.Model = m
	model, _ = model.Update(frameMsg(start))
	model, _ = model.Update(frameMsg(start.Add(100 * time.Millisecond)))

	live := model.(Live)
	if got := live.session.Model.Ticks(); got != 20 {
		t.Errorf("expected 20 ticks after 100ms, got %d", got)
	}
	if len(live.trail) != 2 {
		t.Errorf("expected 2 trail points, got %d", len(live.trail))
	}

	view := live.View()
	for _, want := range []string{"ROBOSIM", "RUNNING", "MOTORS", "SENSORS", "Program"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestLivePauseAndQuit(t *testing.T) {
	m := newLive(t)
	m.Init()

	var model tea.Model = m
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	start := time.Now()
	model, _ = model.Update(frameMsg(start))
	model, _ = model.Update(frameMsg(start.Add(time.Second)))

	live := model.(Live)
	if live.session.Model.Ticks() != 0 {
		t.Errorf("expected no ticks while paused, got %d", live.session.Model.Ticks())
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if live.session.Timeline.Running() {
		t.Error("expected timeline stopped on quit")
	}
}
