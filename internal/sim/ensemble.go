package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/robosim/internal/config"
)

// Ensemble runs the same setup several times with consecutive seeds.
type Ensemble struct {
	setup   Setup
	numRuns int
	workers int
}

func NewEnsemble(setup Setup, numRuns, workers int) *Ensemble {
	if setup.Config == nil {
		setup.Config = config.DefaultConfig()
	}
	if setup.Config.Seed == 0 {
		cfg := *setup.Config
		cfg.Seed = clockSeed()
		setup.Config = &cfg
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Ensemble{setup: setup, numRuns: numRuns, workers: workers}
}

// Seed returns the seed used by run idx.
func (e *Ensemble) Seed(idx int) int64 {
	return e.setup.Config.Seed + int64(idx)
}

// Run executes every run on its own session. Results are in run order;
// the first error wins.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)
	sem := make(chan struct{}, e.workers)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			setup := e.setup
			cfg := *e.setup.Config
			cfg.Seed = e.Seed(idx)
			setup.Config = &cfg

			s, err := New(setup)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
