// Command sand-sweep runs a scenario headless across a range of seeds and
// reports how long each run takes to settle.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"mad-sand/internal/app"

	"github.com/gocarina/gocsv"
)

func main() {
	flags := app.NewConfig()
	flags.Bind(flag.CommandLine)
	seeds := flag.Int("seeds", 16, "number of consecutive seeds to run")
	ticks := flag.Int("ticks", 2000, "tick limit per seed")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	out := flag.String("out", "", "CSV file for per-seed results (- for stdout)")
	flag.Parse()

	log, err := flags.Logger(os.Stderr)
	if err != nil {
		slog.Error("bad logging flags", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flags, *seeds, *ticks, *workers, *out, log); err != nil {
		log.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags *app.Config, n, maxTicks, workers int, out string, log *slog.Logger) error {
	if n < 1 || maxTicks < 1 {
		return fmt.Errorf("-seeds and -ticks must be positive")
	}
	cfg, err := flags.Load()
	if err != nil {
		return err
	}
	job, err := jobFromConfig(cfg, maxTicks)
	if err != nil {
		return err
	}

	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = cfg.Engine.Seed + int64(i)
	}
	log.Info("sweeping", "scenario", cfg.Scenario, "seeds", n, "workers", workers, "ticks", maxTicks)

	start := time.Now()
	results, err := sweep(ctx, job, seeds, workers)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Debug("seed done", "seed", r.Seed, "ticks", r.Ticks, "quiet", r.Quiet, "particles", r.Particles)
	}

	sum := summarize(results)
	log.Info("sweep done",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"runs", sum.Runs,
		"quiet", sum.Quiet,
		"ticks_mean", sum.TicksMean,
		"ticks_std", sum.TicksStd,
		"ticks_p90", sum.TicksP90,
		"particles_mean", sum.Particles,
		"moves_mean", sum.MovesMean,
		"peak_active", sum.PeakActive,
	)
	return writeResults(out, results)
}

func writeResults(path string, results []runResult) error {
	if path == "" {
		return nil
	}
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := gocsv.Marshal(results, w); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
