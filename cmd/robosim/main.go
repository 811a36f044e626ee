package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/logging"
	"github.com/san-kum/robosim/internal/program"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/world"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logJSON    bool

	worldFile   string
	programFile string
	durationMs  int
	seed        int64
	speedFactor float64
	sensorNoise bool
	motorNoise  bool
	sampleEvery int

	numRuns  int
	workers  int
	noSave   bool
	realtime bool

	theme          string
	addr           string
	plotChannels   []string
	exportChannels []string
	format         string
	outFile        string
	width          float64
	height         float64

	log = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "robosim",
		Short:         "two-wheeled robot simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, json := logLevel, logJSON
			if configFile != "" && !cmd.Flags().Changed("log-level") {
				if cfg, err := config.Load(configFile); err == nil {
					level, json = cfg.LogLevel, cfg.LogJSON || logJSON
				}
			}
			l, err := logging.New(level, json)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".robosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headless and store it",
		RunE:  runSimulation,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs with consecutive seeds")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all cpus)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace the run against the wall clock")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal",
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run in real time and stream frames over websocket",
		RunE:  runServe,
	}
	addSessionFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotChannels, "channel", []string{"x", "y", "angle", "speed"}, "channels to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export a stored run as json, png or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, png or svg")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (json defaults to stdout)")
	exportCmd.Flags().StringSliceVar(&exportChannels, "channel", nil, "plot a time series instead of the trajectory")
	exportCmd.Flags().Float64Var(&width, "width", 8, "image width in inches")
	exportCmd.Flags().Float64Var(&height, "height", 6, "image height in inches")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s duration=%dms speed=x%g sensor_noise=%v motor_noise=%v approx=%d\n",
					name, p.DurationMs, p.SpeedFactor, p.SensorNoise, p.MotorNoise, p.ApproximationLevel)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-world [dir]",
		Short: "write an example world, program and config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initWorld,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&worldFile, "world", "w", "", "world file (yaml); built-in example when empty")
	cmd.Flags().StringVarP(&programFile, "program", "p", "", "program file (yaml)")
	cmd.Flags().IntVar(&durationMs, "duration", config.DefaultDurationMs, "simulated duration in ms")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	cmd.Flags().Float64Var(&speedFactor, "speed", config.DefaultSpeedFactor, "speed factor")
	cmd.Flags().BoolVar(&sensorNoise, "sensor-noise", false, "add sensor noise")
	cmd.Flags().BoolVar(&motorNoise, "motor-noise", false, "add motor noise")
	cmd.Flags().IntVar(&sampleEvery, "every", 1, "record every n-th tick")
}

// loadConfig layers defaults, preset, config file and explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.DurationMs = durationMs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("speed") {
		cfg.SpeedFactor = speedFactor
	}
	if flags.Changed("sensor-noise") {
		cfg.SensorNoise = sensorNoise
	}
	if flags.Changed("motor-noise") {
		cfg.MotorNoise = motorNoise
	}
	if flags.Changed("world") {
		cfg.World = worldFile
	}
	if flags.Changed("program") {
		cfg.Program = programFile
	}
	return cfg, cfg.Validate()
}

func loadSetup(cmd *cobra.Command) (sim.Setup, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return sim.Setup{}, err
	}

	setup := sim.Setup{Config: cfg, Logger: log, SampleEvery: sampleEvery}
	if cfg.World != "" {
		setup.World, err = world.Load(cfg.World)
		if err != nil {
			return sim.Setup{}, fmt.Errorf("load world: %w", err)
		}
		setup.WorldName = cfg.World
	} else {
		setup.World = world.ExampleFile()
		setup.WorldName = "example"
	}

	if cfg.Program != "" {
		setup.Program, err = program.Load(cfg.Program)
		if err != nil {
			return sim.Setup{}, fmt.Errorf("load program: %w", err)
		}
		setup.ProgramName = cfg.Program
	}
	return setup, nil
}
