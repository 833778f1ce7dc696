package engine

import (
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
)

type candidate struct {
	pos grid.Coord
	// void marks a destination occupied by a void particle.
	void bool
}

// Step advances the simulation by one tick.
//
// Work happens on a clone of the grid. Active chunks are visited in sorted
// order and each chunk's particles in sorted order, reading the clone as it is
// being rewritten, so a particle that moves into a chunk processed later in the
// same tick may move again. The clone replaces the grid when all chunks are
// done.
func (e *Engine) Step() {
	e.mustBeIdle("Step")
	e.stepping = true
	defer func() { e.stepping = false }()

	e.timer.StartTick()
	defer e.timer.EndTick()

	e.timer.StartPhase(PhaseClone)
	next := e.grid.Clone()

	e.timer.StartPhase(PhaseChunks)
	stats := TickStats{Tick: e.tick + 1}
	view := &tickGrid{g: next, sched: e.sched, life: e.cfg.DefaultLife}
	for _, cc := range e.sched.Snapshot() {
		e.stepChunk(cc, next, view, &stats)
	}

	e.timer.StartPhase(PhaseCommit)
	e.grid = next
	e.tick++
	stats.Active = e.sched.Len()
	stats.Chunks = next.Len()
	stats.Particles = next.Cells()
	e.stats = stats
}

func (e *Engine) stepChunk(cc grid.Coord, next *grid.Chunked[particle.Cell], view *tickGrid, stats *TickStats) {
	chunk, ok := next.Chunk(cc)
	if !ok {
		e.sched.Remove(cc)
		stats.Dropped++
		return
	}
	stats.Processed++

	moved := false
	for _, entry := range chunk.Sorted() {
		if e.stepCell(next.Join(cc, entry.Pos), next, view, stats) {
			moved = true
		}
	}

	switch _, ok := next.Chunk(cc); {
	case !ok:
		e.sched.Remove(cc)
		stats.Dropped++
	case moved:
		e.sched.ActivateAround(cc, e.cfg.DefaultLife)
		stats.Moved++
	default:
		if e.sched.Decay(cc) {
			stats.Dropped++
		}
	}
}

// stepCell runs behavior and movement for the particle at origin. It reports
// whether the particle moved or its behavior asked to stay active.
func (e *Engine) stepCell(origin grid.Coord, next *grid.Chunked[particle.Cell], view *tickGrid, stats *TickStats) bool {
	cell, ok := next.Get(origin)
	if !ok {
		// Cleared earlier in this tick.
		return false
	}
	t := e.types.Type(cell.Type)

	neighbors := e.neighbors[:0]
	for _, d := range grid.Compass {
		p := origin.Add(d)
		if n, ok := next.Get(p); ok {
			neighbors = append(neighbors, particle.Neighbor{Pos: p, Cell: n})
		}
	}

	candidates := e.candidates[:0]
	down := -1
	for _, v := range t.Class.Vectors() {
		dest := origin.Add(v)
		if dest.Y < 1 {
			continue
		}
		occupant, occupied := next.Get(dest)
		if occupied && !e.types.IsVoid(occupant.Type) {
			continue
		}
		if v == particle.Down {
			down = len(candidates)
		}
		candidates = append(candidates, candidate{pos: dest, void: occupied})
	}
	e.neighbors, e.candidates = neighbors, candidates

	exists, active := true, false
	if t.Behavior != nil {
		res := t.Behavior(origin, cell, neighbors, view)
		cell, exists, active = res.Cell, res.Exists, res.Active
	}

	pick := -1
	if len(candidates) > 0 {
		switch {
		case down >= 0 && e.rng.Chance(t.MoveDownChance):
			pick = down
		case down < 0 && !e.rng.Chance(t.MovementChance):
		default:
			pick = e.rng.Pick(len(candidates))
		}
	}

	dest := origin
	if pick >= 0 {
		dest = candidates[pick].pos
		stats.Moves++
	}
	if pick >= 0 || !exists {
		next.Delete(origin)
	}

	switch {
	case !exists:
		stats.Deleted++
	case pick >= 0 && candidates[pick].void:
		// Moving into void destroys both particles. The behavior may have
		// already overwritten the void cell, in which case it stays.
		if occ, ok := next.Get(dest); ok && e.types.IsVoid(occ.Type) {
			next.Delete(dest)
		}
		stats.Deleted++
	default:
		next.Set(dest, cell)
	}

	return pick >= 0 || active
}

// tickGrid is the grid view handed to behaviors. Writes below the floor are
// dropped and every write wakes the 3x3 chunk neighborhood around it so the
// change is processed on the next tick.
type tickGrid struct {
	g     *grid.Chunked[particle.Cell]
	sched *Schedule
	life  int
}

func (v *tickGrid) Get(p grid.Coord) (particle.Cell, bool) { return v.g.Get(p) }

func (v *tickGrid) Set(p grid.Coord, c particle.Cell) {
	if p.Y < 1 {
		return
	}
	v.g.Set(p, c)
	v.sched.ActivateAround(v.g.ChunkOf(p), v.life)
}
