package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/robosim/internal/geometry"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sensors"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/world"
)

const (
	width           = 80
	height          = 24
	trailCapacity   = 600
	historyCapacity = 120
	minSpeedFactor  = 0.125
	maxSpeedFactor  = 16
	ellipseSteps    = 24
)

type frameMsg time.Time

// Live is the Bubble Tea model of a running session. It owns the
// session: every tick happens inside Update.
type Live struct {
	session  *sim.Session
	canvas   *Canvas
	view     Viewport
	theme    Theme
	styles   styles
	trail    []r2.Point
	speeds   []float64
	sonar    map[int][]float64
	readings [sensors.PortCount + 1]int
	last     time.Time
	paused   bool
	showHelp bool
}

func NewLive(s *sim.Session, theme string) Live {
	c := NewCanvas(width, height)
	t := GetTheme(theme)
	return Live{
		session: s,
		canvas:  c,
		view:    NewViewport(fieldBounds(s), c),
		theme:   t,
		styles:  newStyles(t),
		trail:   make([]r2.Point, 0, trailCapacity),
		speeds:  make([]float64, 0, historyCapacity),
		sonar:   make(map[int][]float64),
	}
}

func (m Live) frameCmd() tea.Cmd {
	return tea.Tick(m.session.Timeline.FrameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Live) Init() tea.Cmd {
	m.session.Timeline.Start()
	return m.frameCmd()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tl := m.session.Timeline
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			tl.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.last = time.Time{}
		case "r":
			m.session.Reset()
			tl.Start()
			m.trail = m.trail[:0]
			m.speeds = m.speeds[:0]
			m.sonar = make(map[int][]float64)
			m.last = time.Time{}
		case "+", "=":
			_ = tl.SetSpeedFactor(math.Min(tl.SpeedFactor()*2, maxSpeedFactor))
		case "-", "_":
			_ = tl.SetSpeedFactor(math.Max(tl.SpeedFactor()/2, minSpeedFactor))
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		now := time.Time(msg)
		if !m.paused && tl.Running() {
			if !m.last.IsZero() {
				dt := now.Sub(m.last)
				tl.Advance(dt)
				tl.Render(dt)
			}
			m.sample()
		}
		m.last = now
		return m, m.frameCmd()
	}
	return m, nil
}

// sample records what the panel shows for the current frame.
func (m *Live) sample() {
	model := m.session.Model
	m.trail = appendCapped(m.trail, model.Pose().Position, trailCapacity)
	m.speeds = appendCapped(m.speeds, model.Velocity().Norm()*1000, historyCapacity)

	cfg := m.session.Sensors.Configuration()
	for port := 1; port <= sensors.PortCount; port++ {
		if cfg.Type(port) == sensors.Unused {
			continue
		}
		v, err := m.session.Sensors.Read(port)
		if err != nil {
			continue
		}
		m.readings[port] = v
		if cfg.Type(port) == sensors.Sonar {
			m.sonar[port] = appendCapped(m.sonar[port], float64(v), historyCapacity)
		}
	}
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	if len(s) >= capacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m Live) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(m.panel()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset and rerun          ║
║  +/-      - Faster/slower            ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func (m Live) status() string {
	tl := m.session.Timeline
	switch {
	case !tl.Running():
		return m.styles.finished.Render("FINISHED")
	case m.paused:
		return m.styles.paused.Render("PAUSED")
	default:
		return m.styles.running.Render("RUNNING")
	}
}

func (m Live) panel() string {
	st := m.styles
	model := m.session.Model
	tl := m.session.Timeline
	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(st.header.Render("ROBOSIM") + "\n")
	s.WriteString(m.status() + "\n\n")

	elapsed := float64(model.Ticks()) * robot.TimeInterval
	total := float64(m.session.Config().DurationMs)
	s.WriteString(row("Time", fmt.Sprintf("%.2fs / %.0fs", elapsed/1000, total/1000)))
	s.WriteString(row("", ProgressBar(elapsed/total, 24)))
	s.WriteString(row("Speed", fmt.Sprintf("x%g", tl.SpeedFactor())))

	pose := model.Pose()
	s.WriteString(row("Position", robot.FormatPosition(pose.Position)))
	s.WriteString(row("Heading", fmt.Sprintf("%.1f°", pose.Angle)))
	s.WriteString(row("Velocity", fmt.Sprintf("%.1f px/s", model.Velocity().Norm()*1000)))
	s.WriteString(row("Turn", fmt.Sprintf("%.1f°/s", model.AngularVelocity()*1000)))
	if model.Contacts().Any() {
		s.WriteString(row("Contact", st.alert.Render("wall")))
	}
	if model.Beeping() {
		s.WriteString(row("Beep", fmt.Sprintf("%d Hz", model.BeepFrequency())))
	}

	s.WriteString("\nMOTORS\n")
	for i, e := range model.Engines() {
		if !e.Used {
			continue
		}
		s.WriteString(row("  "+robot.Port(i).String(),
			fmt.Sprintf("%4d%% %-8s %7.0f°", e.Spoiled, e.Mode, e.Turnover)))
	}

	s.WriteString("\nSENSORS\n")
	cfg := m.session.Sensors.Configuration()
	for port := 1; port <= sensors.PortCount; port++ {
		t := cfg.Type(port)
		if t == sensors.Unused {
			continue
		}
		line := fmt.Sprintf("%-6s %4d", t, m.readings[port])
		if hist := m.sonar[port]; len(hist) > 0 {
			line += " " + Sparkline(hist, 12)
		}
		s.WriteString(row(fmt.Sprintf("  %d", port), line))
	}

	if r := m.session.Runner; r != nil {
		step := fmt.Sprintf("%d/%d", r.Current()+1, len(r.Program().Steps))
		if r.Done() {
			step = "done"
		}
		s.WriteString("\n" + row("Program", step))
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed (px/s)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause R:Reset +/-:Speed\nT:Theme ?:Help Q:Quit"))
	return s.String()
}

func (m *Live) draw() {
	m.canvas.Clear()
	v := m.view

	for _, r := range m.session.World.Regions() {
		switch r.Shape {
		case world.ShapeLine:
			v.Polyline(m.canvas, r.Points)
		case world.ShapeEllipse:
			if len(r.Points) >= 2 {
				v.Outline(m.canvas, ellipse(r.Points[0], r.Points[1]))
			}
		default:
			if len(r.Points) >= 3 {
				v.Outline(m.canvas, r.Points)
			}
		}
	}
	for _, w := range m.session.World.Walls() {
		v.Outline(m.canvas, w.Polygon())
	}
	for _, p := range m.trail {
		v.Dot(m.canvas, p)
	}

	model := m.session.Model
	v.Outline(m.canvas, model.Body())
	pose := model.Pose()
	nose := pose.Position.Add(geometry.DirectionVector(pose.Angle).Mul(robot.RobotWidth / 2))
	v.Line(m.canvas, pose.Position, nose)
}

func ellipse(a, b r2.Point) []r2.Point {
	box := r2.RectFromPoints(a, b)
	c, size := box.Center(), box.Size()
	pts := make([]r2.Point, ellipseSteps)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / ellipseSteps
		pts[i] = r2.Point{X: c.X + size.X/2*math.Cos(t), Y: c.Y + size.Y/2*math.Sin(t)}
	}
	return pts
}

// fieldBounds covers every wall, region and the robot.
func fieldBounds(s *sim.Session) r2.Rect {
	bounds := r2.RectFromPoints(s.Model.Body()...)
	for _, w := range s.World.Walls() {
		for _, p := range w.Polygon() {
			bounds = bounds.AddPoint(p)
		}
	}
	for _, r := range s.World.Regions() {
		for _, p := range r.Points {
			bounds = bounds.AddPoint(p)
		}
	}
	return bounds
}
