// Package telemetry measures the engine: phase timings, per-tick counters
// rolled up into windows, and optional CSV output.
package telemetry

import (
	"errors"
	"log/slog"

	"mad-sand/internal/config"
	"mad-sand/internal/engine"
)

// Recorder wires a PerfCollector, a Window and an OutputManager together.
// Hand Perf to engine.WithPhaseTimer and call Observe after every Step.
type Recorder struct {
	Perf *PerfCollector

	window   *Window
	out      *OutputManager
	log      *slog.Logger
	logStats bool

	last    WindowStats
	hasLast bool
}

// NewRecorder builds a recorder from the telemetry config. A nil logger uses
// slog.Default.
func NewRecorder(cfg config.TelemetryConfig, log *slog.Logger) (*Recorder, error) {
	if log == nil {
		log = slog.Default()
	}
	out, err := NewOutputManager(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		Perf:     NewPerfCollector(cfg.Window),
		window:   NewWindow(cfg.Window),
		out:      out,
		log:      log,
		logStats: cfg.LogStats,
	}, nil
}

// Output returns the CSV sink, nil when output is disabled.
func (r *Recorder) Output() *OutputManager { return r.out }

// Observe records the stats of one tick.
func (r *Recorder) Observe(s engine.TickStats) error {
	ws, ok := r.window.Add(s)
	if !ok {
		return nil
	}
	return r.emit(ws)
}

func (r *Recorder) emit(ws WindowStats) error {
	r.last, r.hasLast = ws, true
	perf := r.Perf.Stats()
	if r.logStats {
		r.log.Info("window", "stats", ws, "perf", perf)
	}
	return errors.Join(r.out.WriteWindow(ws), r.out.WritePerf(perf, ws.WindowEnd))
}

// Last returns the most recent window summary.
func (r *Recorder) Last() (WindowStats, bool) { return r.last, r.hasLast }

// Close emits any partial window and closes the output files.
func (r *Recorder) Close() error {
	var err error
	if ws, ok := r.window.Flush(); ok {
		err = r.emit(ws)
	}
	return errors.Join(err, r.out.Close())
}
