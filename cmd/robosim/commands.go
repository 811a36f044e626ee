package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/program"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/telemetry"
	"github.com/san-kum/robosim/internal/viz"
	"github.com/san-kum/robosim/internal/world"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	setup, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	if numRuns > 1 && realtime {
		return errors.New("--realtime needs a single run")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	if numRuns > 1 {
		return runEnsemble(ctx, st, setup)
	}

	s, err := sim.New(setup)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (seed %d)...\n", setup.WorldName, s.Config().Seed)
	start := time.Now()

	var res *sim.Result
	if realtime {
		res, err = s.RunRealtime(ctx)
	} else {
		res, err = s.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	if !noSave {
		runID, err := st.Save(s.Metadata(res), res.Samples)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("ticks: %d (%v simulated)\n", res.Ticks, res.SimTime)
	fmt.Printf("final pose: %s\n", s.Model)
	if s.Runner != nil {
		fmt.Printf("program finished: %v\n", res.ProgramDone)
	}
	printMetrics(res.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, st *storage.Store, setup sim.Setup) error {
	fmt.Printf("running %d runs of %s...\n", numRuns, setup.WorldName)
	start := time.Now()

	results, err := sim.NewEnsemble(setup, numRuns, workers).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tTICKS\tDISTANCE\tPEAK SPEED\tDONE")
	for _, res := range results {
		id := "-"
		if !noSave {
			id, err = st.Save(setup.Metadata(res), res.Samples)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.1f\t%v\n",
			id, res.Seed, res.Ticks, res.Metrics["distance"], res.Metrics["peak_speed"], res.ProgramDone)
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	setup, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	// stderr logging would tear the alternate screen.
	setup.Logger = zap.NewNop()

	s, err := sim.New(setup)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(s, theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	setup, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(setup)
	if err != nil {
		return err
	}

	hub := telemetry.NewHub(telemetry.WithLogger(log.Named("telemetry")))
	s.Timeline.OnFrame(func() {
		if err := hub.Publish(telemetry.ModelFrame(s.Model)); err != nil {
			log.Warn("publish frame", zap.Error(err))
		}
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("telemetry server", zap.Error(err))
		}
	}()
	log.Info("streaming frames", zap.String("url", "ws://"+ln.Addr().String()+"/ws"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := s.RunRealtime(ctx)
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("shutdown", zap.Error(serr))
	}
	if err != nil {
		return err
	}

	fmt.Printf("ticks: %d (%v simulated)\n", res.Ticks, res.SimTime)
	printMetrics(res.Metrics)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORLD\tPROGRAM\tTIME\tDURATION\tTICKS\tSEED")

	for _, run := range runs {
		prog := run.Program
		if prog == "" {
			prog = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%d\n",
			run.ID,
			run.World,
			prog,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			float64(run.DurationMs)/1000,
			run.Ticks,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("world: %s\n", meta.World)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, ch := range plotChannels {
		graph, err := viz.PlotChannel(samples, ch, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		var out io.Writer = os.Stdout
		if outFile != "" {
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return storage.ExportJSON(out, *meta, samples)
	case "png", "svg":
		return exportImage(meta, samples)
	default:
		return fmt.Errorf("unknown format: %s (available: json, png, svg)", format)
	}
}

func exportImage(meta *storage.RunMetadata, samples []storage.Sample) error {
	base := outFile
	if base == "" {
		base = meta.ID + "." + format
	}

	if len(exportChannels) == 0 {
		p, err := export.Trajectory(runWorld(meta), samples, meta.ID)
		if err != nil {
			return err
		}
		if err := export.Save(p, width, height, base); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", base)
		return nil
	}

	ext := filepath.Ext(base)
	for _, ch := range exportChannels {
		path := base
		if len(exportChannels) > 1 {
			path = strings.TrimSuffix(base, ext) + "_" + ch + ext
		}
		p, err := export.TimeSeries(samples, ch)
		if err != nil {
			return err
		}
		if err := export.Save(p, width, height, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// runWorld rebuilds the field a run was recorded on, or nil if the world
// file is gone.
func runWorld(meta *storage.RunMetadata) *world.World {
	f := world.ExampleFile()
	if meta.World != "example" {
		loaded, err := world.Load(meta.World)
		if err != nil {
			log.Warn("world not available, plotting path only", zap.String("world", meta.World), zap.Error(err))
			return nil
		}
		f = loaded
	}
	w, err := f.Build()
	if err != nil {
		log.Warn("world invalid, plotting path only", zap.Error(err))
		return nil
	}
	return w
}

func initWorld(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	worldPath := filepath.Join(dir, "world.yaml")
	programPath := filepath.Join(dir, "program.yaml")
	configPath := filepath.Join(dir, "robosim.yaml")
	for _, path := range []string{worldPath, programPath, configPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	if err := world.Save(worldPath, world.ExampleFile()); err != nil {
		return err
	}
	if err := program.Save(programPath, program.Example()); err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	cfg.World = worldPath
	cfg.Program = programPath
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("wrote %s, %s and %s\n", worldPath, programPath, configPath)
	fmt.Printf("try: robosim run --config %s\n", configPath)
	return nil
}
