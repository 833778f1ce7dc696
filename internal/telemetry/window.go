package telemetry

import (
	"log/slog"
	"slices"

	"mad-sand/internal/engine"

	"gonum.org/v1/gonum/stat"
)

// WindowStats summarizes a run of consecutive ticks.
type WindowStats struct {
	WindowStart uint64 `csv:"-"`
	WindowEnd   uint64 `csv:"window_end"`
	Ticks       int    `csv:"ticks"`

	// Sampled at window end
	Particles int `csv:"particles"`
	Chunks    int `csv:"chunks"`
	Active    int `csv:"active"`

	ActiveMean float64 `csv:"active_mean"`
	ActiveStd  float64 `csv:"active_std"`
	ActiveMax  int     `csv:"active_max"`

	ProcessedMean float64 `csv:"processed_mean"`
	MovesMean     float64 `csv:"moves_mean"`
	MovesP50      float64 `csv:"moves_p50"`
	MovesP90      float64 `csv:"moves_p90"`

	// Totals over the window
	Moves   int `csv:"moves"`
	Deleted int `csv:"deleted"`
	Dropped int `csv:"dropped"`

	// Quiet is true when no chunk was scheduled at window end.
	Quiet bool `csv:"quiet"`
}

// Window accumulates per-tick engine stats and emits a summary every size
// ticks.
type Window struct {
	size  int
	ticks []engine.TickStats
}

// NewWindow creates a window of the given size in ticks.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{size: size, ticks: make([]engine.TickStats, 0, size)}
}

// Add records one tick. It returns the summary when the window is full and
// starts a new one.
func (w *Window) Add(s engine.TickStats) (WindowStats, bool) {
	w.ticks = append(w.ticks, s)
	if len(w.ticks) < w.size {
		return WindowStats{}, false
	}
	ws := Summarize(w.ticks)
	w.ticks = w.ticks[:0]
	return ws, true
}

// Flush summarizes a partial window, if any.
func (w *Window) Flush() (WindowStats, bool) {
	if len(w.ticks) == 0 {
		return WindowStats{}, false
	}
	ws := Summarize(w.ticks)
	w.ticks = w.ticks[:0]
	return ws, true
}

// Summarize aggregates a slice of tick stats. The slice must not be empty.
func Summarize(ticks []engine.TickStats) WindowStats {
	n := len(ticks)
	first, last := ticks[0], ticks[n-1]
	ws := WindowStats{
		WindowStart: first.Tick,
		WindowEnd:   last.Tick,
		Ticks:       n,
		Particles:   last.Particles,
		Chunks:      last.Chunks,
		Active:      last.Active,
		Quiet:       last.Active == 0,
	}

	active := make([]float64, n)
	processed := make([]float64, n)
	moves := make([]float64, n)
	for i, t := range ticks {
		active[i] = float64(t.Active)
		processed[i] = float64(t.Processed)
		moves[i] = float64(t.Moves)
		ws.ActiveMax = max(ws.ActiveMax, t.Active)
		ws.Moves += t.Moves
		ws.Deleted += t.Deleted
		ws.Dropped += t.Dropped
	}

	ws.ActiveMean, ws.ActiveStd = meanStd(active)
	ws.ProcessedMean = stat.Mean(processed, nil)
	ws.MovesMean = stat.Mean(moves, nil)

	slices.Sort(moves)
	ws.MovesP50 = stat.Quantile(0.5, stat.Empirical, moves, nil)
	ws.MovesP90 = stat.Quantile(0.9, stat.Empirical, moves, nil)
	return ws
}

func meanStd(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEnd),
		slog.Int("particles", s.Particles),
		slog.Int("chunks", s.Chunks),
		slog.Int("active", s.Active),
		slog.Float64("active_mean", s.ActiveMean),
		slog.Int("active_max", s.ActiveMax),
		slog.Float64("moves_mean", s.MovesMean),
		slog.Float64("moves_p90", s.MovesP90),
		slog.Int("deleted", s.Deleted),
		slog.Bool("quiet", s.Quiet),
	)
}
