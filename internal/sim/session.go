// Package sim assembles a world, a robot, its sensors, an optional
// program and the timeline into one runnable session.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/metrics"
	"github.com/san-kum/robosim/internal/program"
	"github.com/san-kum/robosim/internal/robot"
	"github.com/san-kum/robosim/internal/sensors"
	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/timeline"
	"github.com/san-kum/robosim/internal/world"
)

var ErrNoWorld = errors.New("sim: no world")

// Setup is everything needed to build a Session. Program may be nil, in
// which case the robot only moves when driven from outside.
type Setup struct {
	World       *world.File
	WorldName   string
	Program     *program.Program
	ProgramName string
	Config      *config.Config
	Logger      *zap.Logger
	// SampleEvery is the recorder stride in ticks; 0 records every tick.
	SampleEvery int
}

type Session struct {
	World    *world.World
	Model    *robot.Model
	Sensors  *sensors.Sampler
	Runner   *program.Runner
	Timeline *timeline.Timeline
	Metrics  *metrics.Set
	Recorder *storage.Recorder

	setup Setup
	log   *zap.Logger
}

type Result struct {
	Seed        int64
	Ticks       int64
	SimTime     time.Duration
	Final       robot.Pose
	ProgramDone bool
	Metrics     map[string]float64
	Samples     []storage.Sample
}

func New(setup Setup) (*Session, error) {
	if setup.World == nil {
		return nil, ErrNoWorld
	}
	if setup.Config == nil {
		setup.Config = config.DefaultConfig()
	}
	if err := setup.Config.Validate(); err != nil {
		return nil, err
	}
	if setup.Program != nil {
		if err := setup.Program.Validate(); err != nil {
			return nil, fmt.Errorf("program: %w", err)
		}
	}
	log := setup.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if setup.Config.Seed == 0 {
		// Pin the clock seed so the stored run can be replayed.
		cfg := *setup.Config
		cfg.Seed = clockSeed()
		setup.Config = &cfg
	}
	cfg := setup.Config

	w, err := setup.World.Build()
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	model := robot.New(w, cfg.SimulationConfig(), robot.WithLogger(log.Named("robot")))
	if setup.World.Robot != nil {
		if err := model.Load(*setup.World.Robot); err != nil {
			return nil, fmt.Errorf("robot pose: %w", err)
		}
	}

	sc, err := sensors.FromRecords(setup.World.Sensors)
	if err != nil {
		return nil, fmt.Errorf("sensors: %w", err)
	}

	tl := timeline.New(
		timeline.WithFrameInterval(time.Second/time.Duration(cfg.FPS)),
		timeline.WithLogger(log.Named("timeline")),
	)
	if err := tl.SetSpeedFactor(cfg.SpeedFactor); err != nil {
		return nil, err
	}

	s := &Session{
		World:    w,
		Model:    model,
		Sensors:  sensors.NewSampler(model, sc),
		Timeline: tl,
		Metrics:  metrics.Default(),
		Recorder: storage.NewRecorder(setup.SampleEvery),
		setup:    setup,
		log:      log,
	}
	model.AddObserver(s.Metrics)
	model.AddObserver(s.Recorder)

	tl.OnTick(model.Tick)
	if setup.Program != nil {
		s.Runner = program.NewRunner(setup.Program, model, s.Sensors, program.WithLogger(log.Named("program")))
		s.Runner.OnDone(tl.Stop)
		tl.OnTick(s.Runner.Tick)
	}
	tl.OnTick(s.checkDuration)
	tl.OnFrame(func() { model.CountBeep(tl.FrameInterval()) })
	tl.OnStop(func() {
		model.Stop()
		model.Halt()
	})

	return s, nil
}

func (s *Session) Config() *config.Config { return s.setup.Config }

// Duration is the configured run length in simulated time.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.setup.Config.DurationMs) * time.Millisecond
}

func (s *Session) checkDuration() {
	elapsed := time.Duration(float64(s.Model.Ticks()) * robot.TimeInterval * float64(time.Millisecond))
	if elapsed >= s.Duration() {
		s.Timeline.Stop()
	}
}

// Run executes the session headless, as fast as possible, until the
// duration elapses, the program finishes or ctx is done.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	s.log.Info("run started",
		zap.String("world", s.setup.WorldName),
		zap.String("program", s.setup.ProgramName),
		zap.Duration("duration", s.Duration()))

	if err := s.Timeline.RunFor(ctx, s.Duration()); err != nil {
		return s.Result(), err
	}

	res := s.Result()
	s.log.Info("run finished",
		zap.Int64("ticks", res.Ticks),
		zap.Bool("program_done", res.ProgramDone),
		zap.Stringer("robot", s.Model))
	return res, nil
}

// RunRealtime drives the session from the wall clock. Frame hooks added
// before the call fire at the configured rate.
func (s *Session) RunRealtime(ctx context.Context) (*Result, error) {
	if err := s.Timeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return s.Result(), err
	}
	return s.Result(), nil
}

func (s *Session) Result() *Result {
	return &Result{
		Seed:        s.setup.Config.Seed,
		Ticks:       s.Model.Ticks(),
		SimTime:     time.Duration(float64(s.Model.Ticks()) * robot.TimeInterval * float64(time.Millisecond)),
		Final:       s.Model.Pose(),
		ProgramDone: s.Runner != nil && s.Runner.Done(),
		Metrics:     s.Metrics.Values(),
		Samples:     s.Recorder.Samples(),
	}
}

// Reset puts the robot back at its start pose and rewinds the program,
// metrics and recorder. The timeline is left stopped.
func (s *Session) Reset() {
	s.Timeline.Stop()
	s.Model.Reset()
	s.Sensors.Reset()
	if s.Runner != nil {
		s.Runner.Reset()
	}
	s.Metrics.Reset()
	s.Recorder.Reset()
}

func (s *Session) Metadata(res *Result) storage.RunMetadata {
	return s.setup.Metadata(res)
}

// Metadata describes res, a run of this setup, for storage.
func (s Setup) Metadata(res *Result) storage.RunMetadata {
	cfg := s.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return storage.RunMetadata{
		World:       s.WorldName,
		Program:     s.ProgramName,
		Seed:        res.Seed,
		DurationMs:  cfg.DurationMs,
		Ticks:       res.Ticks,
		SensorNoise: cfg.SensorNoise,
		MotorNoise:  cfg.MotorNoise,
		Metrics:     res.Metrics,
	}
}

func clockSeed() int64 { return time.Now().UnixNano() }
