// Package engine runs the falling-sand simulation: a chunked sparse grid of
// particles, an activity schedule that lets settled chunks go dormant, and the
// per-tick movement and behavior pass.
//
// The engine is single-threaded and not reentrant. Readers must only look at
// the grid between calls to Step.
package engine

import (
	"fmt"
	"io"
	"iter"
	"log/slog"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/pkg/core"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseClone  = "clone"
	PhaseChunks = "chunks"
	PhaseCommit = "commit"
)

// Config controls the engine's grid partitioning and decay window.
type Config struct {
	ChunkWidth  int
	ChunkHeight int
	// DefaultLife is the number of quiet ticks before a chunk goes dormant.
	DefaultLife int
	Seed        int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{ChunkWidth: 4, ChunkHeight: 4, DefaultLife: 6, Seed: 1}
}

// PhaseTimer receives tick and phase boundaries. telemetry.PerfCollector
// implements it.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

type nopTimer struct{}

func (nopTimer) StartTick()        {}
func (nopTimer) StartPhase(string) {}
func (nopTimer) EndTick()          {}

// TickStats summarizes one call to Step.
type TickStats struct {
	Tick uint64 `csv:"tick"`
	// Processed counts chunks from the schedule snapshot that still existed.
	Processed int `csv:"processed"`
	Moved     int `csv:"moved"`
	Dropped   int `csv:"dropped"`
	Active    int `csv:"active"`
	Chunks    int `csv:"chunks"`
	Particles int `csv:"particles"`
	Moves     int `csv:"moves"`
	Deleted   int `csv:"deleted"`
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPhaseTimer reports tick phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(e *Engine) {
		if t != nil {
			e.timer = t
		}
	}
}

// Engine owns the current grid and the active-chunk schedule.
type Engine struct {
	cfg   Config
	types *particle.Registry
	grid  *grid.Chunked[particle.Cell]
	sched *Schedule
	rng   *core.RNG
	log   *slog.Logger
	timer PhaseTimer

	tick     uint64
	stats    TickStats
	stepping bool

	neighbors  []particle.Neighbor
	candidates []candidate
}

// New constructs an engine over the given type registry.
func New(cfg Config, types *particle.Registry, opts ...Option) *Engine {
	if cfg.DefaultLife < 1 {
		panic(fmt.Sprintf("engine: default life must be positive, got %d", cfg.DefaultLife))
	}
	if types == nil {
		panic("engine: nil particle registry")
	}
	e := &Engine{
		cfg:        cfg,
		types:      types,
		grid:       grid.NewChunked[particle.Cell](grid.Size{W: cfg.ChunkWidth, H: cfg.ChunkHeight}),
		sched:      NewSchedule(),
		rng:        core.NewRNG(cfg.Seed),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		timer:      nopTimer{},
		neighbors:  make([]particle.Neighbor, 0, len(grid.Compass)),
		candidates: make([]candidate, 0, len(particle.Liquid.Vectors())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug("engine ready",
		"chunk_width", cfg.ChunkWidth,
		"chunk_height", cfg.ChunkHeight,
		"default_life", cfg.DefaultLife,
		"types", types.Len(),
	)
	return e
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "falling-sand" }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Types returns the particle registry.
func (e *Engine) Types() *particle.Registry { return e.types }

// ChunkSize returns the chunk dimensions.
func (e *Engine) ChunkSize() grid.Size { return e.grid.ChunkSize() }

// ChunkOf returns the chunk coordinate containing pos.
func (e *Engine) ChunkOf(pos grid.Coord) grid.Coord { return e.grid.ChunkOf(pos) }

// Tick returns the number of completed steps.
func (e *Engine) Tick() uint64 { return e.tick }

// Stats returns the summary of the last step.
func (e *Engine) Stats() TickStats { return e.stats }

// Reset empties the grid and schedule and reseeds the random source.
func (e *Engine) Reset(seed int64) {
	e.mustBeIdle("Reset")
	e.grid = grid.NewChunked[particle.Cell](e.grid.ChunkSize())
	e.sched.Clear()
	e.rng = core.NewRNG(seed)
	e.tick = 0
	e.stats = TickStats{}
}

// Place writes a fresh particle of type id at pos, or clears pos when id is
// particle.None, and wakes the surrounding chunks. Placing below the floor or
// an unregistered type panics.
func (e *Engine) Place(pos grid.Coord, id particle.ID) {
	e.mustBeIdle("Place")
	if pos.Y < 1 {
		panic(fmt.Sprintf("engine: place at %v is below the floor", pos))
	}
	if id != particle.None && !e.types.Valid(id) {
		panic(fmt.Sprintf("engine: place with unregistered type id %d", id))
	}
	e.sched.ActivateAround(e.grid.ChunkOf(pos), e.cfg.DefaultLife)
	if id == particle.None {
		e.grid.Delete(pos)
		return
	}
	e.grid.Set(pos, e.types.New(id))
}

// Erase clears pos.
func (e *Engine) Erase(pos grid.Coord) { e.Place(pos, particle.None) }

// Query returns the particle at pos.
func (e *Engine) Query(pos grid.Coord) (particle.Cell, bool) {
	return e.grid.Get(pos)
}

// Chunks iterates over the live chunks of the current grid. The chunks are
// read-only and only valid until the next Step or Place.
func (e *Engine) Chunks() iter.Seq2[grid.Coord, *grid.Sparse[particle.Cell]] {
	return e.grid.Chunks()
}

// Chunk returns a single live chunk.
func (e *Engine) Chunk(cc grid.Coord) (*grid.Sparse[particle.Cell], bool) {
	return e.grid.Chunk(cc)
}

// ChunkCoords returns the coordinates of all live chunks in sorted order.
func (e *Engine) ChunkCoords() []grid.Coord { return e.grid.ChunkCoords() }

// Particles reports the number of particles in the grid.
func (e *Engine) Particles() int { return e.grid.Cells() }

// Cell converts a chunk-local coordinate into an absolute one.
func (e *Engine) Cell(cc, sub grid.Coord) grid.Coord { return e.grid.Join(cc, sub) }

// ActivateChunk schedules a single chunk at the default life.
func (e *Engine) ActivateChunk(cc grid.Coord) {
	e.mustBeIdle("ActivateChunk")
	e.sched.Activate(cc, e.cfg.DefaultLife)
	e.log.Debug("chunk activated", "chunk", cc)
}

// DeactivateChunk removes a chunk from the schedule without touching its
// particles.
func (e *Engine) DeactivateChunk(cc grid.Coord) {
	e.mustBeIdle("DeactivateChunk")
	e.sched.Remove(cc)
	e.log.Debug("chunk deactivated", "chunk", cc)
}

// IsActive reports whether a chunk is scheduled.
func (e *Engine) IsActive(cc grid.Coord) bool { return e.sched.Active(cc) }

// Life returns the remaining life of a chunk, 0 when dormant.
func (e *Engine) Life(cc grid.Coord) int { return e.sched.Life(cc) }

// ActiveChunks returns the scheduled chunk coordinates in processing order.
func (e *Engine) ActiveChunks() []grid.Coord { return e.sched.Snapshot() }

func (e *Engine) mustBeIdle(op string) {
	if e.stepping {
		panic("engine: " + op + " called during Step")
	}
}
