// Package timeline schedules the fixed simulation ticks and the slower
// render frames, either against the wall clock or as fast as possible.
package timeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTickInterval  = 5 * time.Millisecond
	DefaultFrameInterval = 30 * time.Millisecond
)

var ErrInvalidSpeedFactor = errors.New("timeline: speed factor must be positive")

type Timeline struct {
	tick  time.Duration
	frame time.Duration
	speed float64

	pending    time.Duration
	sinceFrame time.Duration
	ticks      int64
	running    bool

	onTick  []func()
	onFrame []func()
	onStop  []func()

	log *zap.Logger
}

type Option func(*Timeline)

func WithTickInterval(d time.Duration) Option {
	return func(t *Timeline) { t.tick = d }
}

func WithFrameInterval(d time.Duration) Option {
	return func(t *Timeline) { t.frame = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Timeline) { t.log = l }
}

func New(opts ...Option) *Timeline {
	t := &Timeline{
		tick:  DefaultTickInterval,
		frame: DefaultFrameInterval,
		speed: 1,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timeline) OnTick(fn func())  { t.onTick = append(t.onTick, fn) }
func (t *Timeline) OnFrame(fn func()) { t.onFrame = append(t.onFrame, fn) }
func (t *Timeline) OnStop(fn func())  { t.onStop = append(t.onStop, fn) }

func (t *Timeline) Running() bool                { return t.running }
func (t *Timeline) Ticks() int64                 { return t.ticks }
func (t *Timeline) TickInterval() time.Duration  { return t.tick }
func (t *Timeline) FrameInterval() time.Duration { return t.frame }
func (t *Timeline) SpeedFactor() float64         { return t.speed }

// SimTime is the simulated time elapsed since the first tick.
func (t *Timeline) SimTime() time.Duration {
	return time.Duration(t.ticks) * t.tick
}

// SetSpeedFactor scales simulated time against real time: 2 runs twice as
// many ticks per wall-clock second.
func (t *Timeline) SetSpeedFactor(f float64) error {
	if f <= 0 {
		return ErrInvalidSpeedFactor
	}
	t.speed = f
	return nil
}

func (t *Timeline) Start() {
	if t.running {
		return
	}
	t.running = true
	t.pending = 0
	t.sinceFrame = 0
	t.log.Debug("timeline started", zap.Duration("tick", t.tick), zap.Float64("speed", t.speed))
}

// Stop halts the timeline and runs the stop hooks. Stopping a timeline
// that is not running does nothing.
func (t *Timeline) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.log.Debug("timeline stopped", zap.Int64("ticks", t.ticks), zap.Duration("sim_time", t.SimTime()))
	for _, fn := range t.onStop {
		fn()
	}
}

// Step runs exactly one tick if the timeline is running.
func (t *Timeline) Step() bool {
	if !t.running {
		return false
	}
	t.ticks++
	for _, fn := range t.onTick {
		fn()
	}
	return true
}

// Advance accounts for dt of real time and runs every tick that became
// due. A tick hook that stops the timeline cancels the remaining ones.
func (t *Timeline) Advance(dt time.Duration) int {
	if !t.running {
		return 0
	}
	t.pending += time.Duration(float64(dt) * t.speed)
	n := 0
	for t.pending >= t.tick && t.Step() {
		t.pending -= t.tick
		n++
	}
	return n
}

// Render fires the frame hooks when at least one frame interval of real
// time has passed since the last frame. Missed frames are dropped.
func (t *Timeline) Render(dt time.Duration) bool {
	if !t.running {
		return false
	}
	t.sinceFrame += dt
	if t.sinceFrame < t.frame {
		return false
	}
	t.sinceFrame %= t.frame
	for _, fn := range t.onFrame {
		fn()
	}
	return true
}

// Run starts the timeline and drives it from the wall clock until it is
// stopped or ctx is done. It blocks the calling goroutine.
func (t *Timeline) Run(ctx context.Context) error {
	t.Start()
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	last := time.Now()
	for t.running {
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			t.Advance(elapsed)
			t.Render(elapsed)
		}
	}
	return nil
}

// RunFor runs ticks back to back, without waiting for the wall clock,
// until d of simulated time has passed or the timeline is stopped. Frame
// hooks fire every frame interval of simulated time.
func (t *Timeline) RunFor(ctx context.Context, d time.Duration) error {
	t.Start()
	end := t.ticks + int64(d/t.tick)
	for t.running && t.ticks < end {
		if t.ticks%1000 == 0 {
			if err := ctx.Err(); err != nil {
				t.Stop()
				return err
			}
		}
		t.Step()
		t.Render(t.tick)
	}
	t.Stop()
	return nil
}
