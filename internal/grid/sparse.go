package grid

import (
	"iter"
	"maps"
	"slices"
)

// Entry pairs a coordinate with the value stored there.
type Entry[T any] struct {
	Pos   Coord
	Value T
}

// Sparse maps coordinates to values. A missing key is empty space.
// Values are copied on Clone, so T should be a plain value type.
type Sparse[T any] struct {
	cells map[Coord]T
}

// NewSparse returns an empty sparse grid.
func NewSparse[T any]() *Sparse[T] {
	return &Sparse[T]{cells: make(map[Coord]T)}
}

// Get returns the value at c and whether the cell is occupied.
func (s *Sparse[T]) Get(c Coord) (T, bool) {
	v, ok := s.cells[c]
	return v, ok
}

// Set stores v at c.
func (s *Sparse[T]) Set(c Coord, v T) {
	if s.cells == nil {
		s.cells = make(map[Coord]T)
	}
	s.cells[c] = v
}

// Delete empties c. Deleting an empty cell is a no-op.
func (s *Sparse[T]) Delete(c Coord) {
	delete(s.cells, c)
}

// Len reports the number of occupied cells.
func (s *Sparse[T]) Len() int { return len(s.cells) }

// Empty reports whether no cell is occupied.
func (s *Sparse[T]) Empty() bool { return len(s.cells) == 0 }

// All iterates over occupied cells in unspecified order. The grid must not be
// modified during iteration.
func (s *Sparse[T]) All() iter.Seq2[Coord, T] {
	return func(yield func(Coord, T) bool) {
		for c, v := range s.cells {
			if !yield(c, v) {
				return
			}
		}
	}
}

// Sorted returns a copy of the occupied cells ordered by Compare.
func (s *Sparse[T]) Sorted() []Entry[T] {
	out := make([]Entry[T], 0, len(s.cells))
	for c, v := range s.cells {
		out = append(out, Entry[T]{Pos: c, Value: v})
	}
	slices.SortFunc(out, func(a, b Entry[T]) int { return Compare(a.Pos, b.Pos) })
	return out
}

// Clone returns an independent copy of the grid.
func (s *Sparse[T]) Clone() *Sparse[T] {
	return &Sparse[T]{cells: maps.Clone(s.cells)}
}
