package main

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"mad-sand/internal/config"
	"mad-sand/internal/engine"
	"mad-sand/internal/particle"
	"mad-sand/internal/scenario"

	"gonum.org/v1/gonum/stat"
)

// runResult is one seed of a sweep.
type runResult struct {
	Seed       int64   `csv:"seed"`
	Ticks      uint64  `csv:"ticks"`
	Quiet      bool    `csv:"quiet"`
	Initial    int     `csv:"initial"`
	Particles  int     `csv:"particles"`
	Moves      int     `csv:"moves"`
	Deleted    int     `csv:"deleted"`
	Dropped    int     `csv:"dropped"`
	PeakActive int     `csv:"peak_active"`
	Millis     float64 `csv:"millis"`
}

// sweepSummary aggregates a sweep.
type sweepSummary struct {
	Runs       int
	Quiet      int
	TicksMean  float64
	TicksStd   float64
	TicksP90   float64
	Particles  float64
	MovesMean  float64
	PeakActive int
}

type sweepJob struct {
	cfg      engine.Config
	types    *particle.Registry
	scenario string
	maxTicks int
}

// runSeed loads the scenario with seed and steps until no chunk is scheduled
// or maxTicks have run.
func runSeed(job sweepJob, seed int64) (runResult, error) {
	cfg := job.cfg
	cfg.Seed = seed
	e := engine.New(cfg, job.types)
	if err := scenario.Load(e, job.scenario, seed); err != nil {
		return runResult{}, err
	}

	res := runResult{Seed: seed, Initial: e.Particles()}
	start := time.Now()
	for i := 0; i < job.maxTicks; i++ {
		e.Step()
		s := e.Stats()
		res.Moves += s.Moves
		res.Deleted += s.Deleted
		res.Dropped += s.Dropped
		res.PeakActive = max(res.PeakActive, s.Active)
		if s.Active == 0 {
			res.Quiet = true
			break
		}
	}
	res.Ticks = e.Tick()
	res.Particles = e.Particles()
	res.Millis = float64(time.Since(start).Microseconds()) / 1000
	return res, nil
}

// sweep runs every seed on a pool of workers. Results are sorted by seed.
func sweep(ctx context.Context, job sweepJob, seeds []int64, workers int) ([]runResult, error) {
	workers = max(workers, 1)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int64)
	results := make(chan runResult)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				res, err := runSeed(job, seed)
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("seed %d: %w", seed, err)
						cancel()
					})
					continue
				}
				select {
				case results <- res:
				case <-ctx.Done():
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, seed := range seeds {
			select {
			case jobs <- seed:
			case <-ctx.Done():
				return
			}
		}
	}()

	all := make([]runResult, 0, len(seeds))
	for res := range results {
		all = append(all, res)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(all) < len(seeds) {
		return nil, err
	}
	slices.SortFunc(all, func(a, b runResult) int {
		switch {
		case a.Seed < b.Seed:
			return -1
		case a.Seed > b.Seed:
			return 1
		}
		return 0
	})
	return all, nil
}

func summarize(results []runResult) sweepSummary {
	sum := sweepSummary{Runs: len(results)}
	if len(results) == 0 {
		return sum
	}
	ticks := make([]float64, len(results))
	particles := make([]float64, len(results))
	moves := make([]float64, len(results))
	for i, r := range results {
		ticks[i] = float64(r.Ticks)
		particles[i] = float64(r.Particles)
		moves[i] = float64(r.Moves)
		if r.Quiet {
			sum.Quiet++
		}
		sum.PeakActive = max(sum.PeakActive, r.PeakActive)
	}
	sum.TicksMean, sum.TicksStd = stat.MeanStdDev(ticks, nil)
	if len(ticks) < 2 {
		sum.TicksStd = 0
	}
	sum.Particles = stat.Mean(particles, nil)
	sum.MovesMean = stat.Mean(moves, nil)

	slices.Sort(ticks)
	sum.TicksP90 = stat.Quantile(0.9, stat.Empirical, ticks, nil)
	return sum
}

func jobFromConfig(cfg *config.Config, maxTicks int) (sweepJob, error) {
	types, err := cfg.ParticleTable()
	if err != nil {
		return sweepJob{}, err
	}
	if _, ok := scenario.Lookup(cfg.Scenario); !ok {
		return sweepJob{}, fmt.Errorf("unknown scenario %q (have %v)", cfg.Scenario, scenario.Names())
	}
	return sweepJob{cfg: cfg.EngineConfig(), types: types, scenario: cfg.Scenario, maxTicks: maxTicks}, nil
}
