package program

import (
	"math"
	"time"

	"github.com/san-kum/robosim/internal/control"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sensors"
	"go.uber.org/zap"
)

// Runner executes a Program against a robot. Call Tick once after every
// model tick; instant steps run back to back, waits hold the program
// until their condition is met.
type Runner struct {
	prog    *Program
	model   *robot.Model
	sampler *sensors.Sampler
	log     *zap.Logger

	pc        int
	waitStart int64
	waiting   bool
	done      bool
	pid       *control.PID
	onDone    []func()
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func NewRunner(p *Program, m *robot.Model, s *sensors.Sampler, opts ...Option) *Runner {
	r := &Runner{prog: p, model: m, sampler: s, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnDone registers fn to run once when the last step completes.
func (r *Runner) OnDone(fn func()) { r.onDone = append(r.onDone, fn) }

func (r *Runner) Done() bool { return r.done }

// Current is the zero-based index of the step being executed.
func (r *Runner) Current() int { return r.pc }

func (r *Runner) Program() *Program { return r.prog }

// Reset rewinds to the first step. Done hooks stay registered.
func (r *Runner) Reset() {
	r.pc = 0
	r.waitStart = 0
	r.waiting = false
	r.done = false
	r.pid = nil
}

func (r *Runner) Tick() {
	for !r.done {
		if r.pc >= len(r.prog.Steps) {
			r.finish()
			return
		}
		step := r.prog.Steps[r.pc]
		if !r.execute(step) {
			return
		}
		r.pc++
		r.waiting = false
	}
}

func (r *Runner) finish() {
	r.done = true
	r.log.Info("program finished", zap.String("program", r.prog.Name), zap.Int64("tick", r.model.Ticks()))
	for _, fn := range r.onDone {
		fn()
	}
}

// execute runs one step and reports whether the program may move on.
func (r *Runner) execute(s Step) bool {
	if !r.waiting {
		r.waiting = true
		r.waitStart = r.model.Ticks()
		r.log.Debug("step", zap.Int("index", r.pc+1), zap.String("action", s.Action))
		if s.Action == ActionFollowLine {
			r.pid = control.NewPID(s.Kp, s.Ki, s.Kd, float64(s.Target))
			r.pid.Limit = robot.MaxSpeed
		}
	}

	switch s.Action {
	case ActionMotor:
		ports, _ := s.motorPorts()
		for _, p := range ports {
			if err := r.model.SetMotor(s.Speed, s.Degrees, p, s.Brake); err != nil {
				r.log.Warn("motor command failed", zap.Error(err))
			}
		}
		return true
	case ActionStop:
		r.model.Stop()
		return true
	case ActionBeep:
		r.model.SetBeep(s.Frequency, time.Duration(s.Duration)*time.Millisecond)
		return true
	case ActionWait:
		elapsed := float64(r.model.Ticks()-r.waitStart) * robot.TimeInterval
		return elapsed >= float64(s.Duration)
	case ActionWaitMotors:
		for _, e := range r.model.Engines() {
			if e.Mode == robot.ByLimit {
				return false
			}
		}
		return true
	case ActionWaitTouch:
		return r.read(s.Port) == 1
	case ActionWaitSonar, ActionWaitLight:
		return compare(r.read(s.Port), s.Below, s.Above)
	case ActionWaitColor:
		code, _ := sensors.ColorCode(s.Color)
		return r.read(s.Port) == code
	case ActionFollowLine:
		return r.follow(s)
	}
	return true
}

// follow runs one control step of a follow_line instruction.
func (r *Runner) follow(s Step) bool {
	elapsed := float64(r.model.Ticks()-r.waitStart) * robot.TimeInterval
	if elapsed >= float64(s.Duration) {
		r.pid = nil
		return true
	}
	u := int(math.Round(r.pid.Update(float64(r.read(s.Port)), robot.TimeInterval)))
	ports, _ := s.motorPorts()
	for i, speed := range [2]int{s.Speed + u, s.Speed - u} {
		if err := r.model.SetMotor(speed, 0, ports[i], false); err != nil {
			r.log.Warn("motor command failed", zap.Error(err))
		}
	}
	return false
}

func (r *Runner) read(port int) int {
	v, err := r.sampler.Read(port)
	if err != nil {
		r.log.Warn("sensor read failed", zap.Int("port", port), zap.Error(err))
	}
	return v
}

func compare(v int, below, above *int) bool {
	if below != nil {
		return v < *below
	}
	return v > *above
}
