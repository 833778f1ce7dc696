package engine

import (
	"slices"

	"mad-sand/internal/grid"
)

// Schedule tracks which chunks get processed. Each active chunk carries a
// life counter; a chunk stays scheduled while its life is above zero.
type Schedule struct {
	life map[grid.Coord]int
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{life: make(map[grid.Coord]int)}
}

// Activate schedules c with the given life, replacing any previous value.
func (s *Schedule) Activate(c grid.Coord, life int) {
	s.life[c] = life
}

// ActivateAround schedules c and its eight neighbors.
func (s *Schedule) ActivateAround(c grid.Coord, life int) {
	for _, n := range grid.Around(c) {
		s.life[n] = life
	}
}

// Remove unschedules c.
func (s *Schedule) Remove(c grid.Coord) {
	delete(s.life, c)
}

// Decay decrements the life of c and unschedules it at zero. It reports
// whether c was removed.
func (s *Schedule) Decay(c grid.Coord) bool {
	life, ok := s.life[c]
	if !ok {
		return false
	}
	life--
	if life <= 0 {
		delete(s.life, c)
		return true
	}
	s.life[c] = life
	return false
}

// Active reports whether c is scheduled.
func (s *Schedule) Active(c grid.Coord) bool {
	_, ok := s.life[c]
	return ok
}

// Life returns the remaining life of c, or 0 when it is not scheduled.
func (s *Schedule) Life(c grid.Coord) int { return s.life[c] }

// Len reports the number of scheduled chunks.
func (s *Schedule) Len() int { return len(s.life) }

// Snapshot returns the scheduled chunk coordinates ordered by grid.Compare.
func (s *Schedule) Snapshot() []grid.Coord {
	out := make([]grid.Coord, 0, len(s.life))
	for c := range s.life {
		out = append(out, c)
	}
	slices.SortFunc(out, grid.Compare)
	return out
}

// Clear unschedules everything.
func (s *Schedule) Clear() {
	clear(s.life)
}
