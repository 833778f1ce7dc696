package viewport

import (
	"slices"

	"mad-sand/internal/grid"
)

// Scheduler is the part of the engine the lazy loader drives.
type Scheduler interface {
	ChunkCoords() []grid.Coord
	ChunkSize() grid.Size
	IsActive(cc grid.Coord) bool
	ActivateChunk(cc grid.Coord)
	DeactivateChunk(cc grid.Coord)
}

// Lazy suspends active chunks that drift out of view and resumes them when
// they come back. Only chunks it suspended itself are resumed.
type Lazy struct {
	Enabled bool
	// Margin widens the view, in chunks.
	Margin int

	unloaded map[grid.Coord]struct{}
}

// NewLazy creates a lazy loader.
func NewLazy(enabled bool, margin int) *Lazy {
	return &Lazy{Enabled: enabled, Margin: margin, unloaded: make(map[grid.Coord]struct{})}
}

// Update applies the policy for the current camera and returns the live
// chunks near the view in sorted order.
func (l *Lazy) Update(s Scheduler, cam Camera) []grid.Coord {
	size := s.ChunkSize()
	var visible []grid.Coord
	for _, cc := range s.ChunkCoords() {
		if !cam.ChunkVisible(cc, size, l.Margin) {
			if l.Enabled && s.IsActive(cc) {
				s.DeactivateChunk(cc)
				l.unloaded[cc] = struct{}{}
			}
			continue
		}
		if _, ok := l.unloaded[cc]; ok {
			s.ActivateChunk(cc)
			delete(l.unloaded, cc)
		}
		visible = append(visible, cc)
	}
	return visible
}

// Unloaded reports whether cc is currently suspended.
func (l *Lazy) Unloaded(cc grid.Coord) bool {
	_, ok := l.unloaded[cc]
	return ok
}

// Suspended returns the suspended chunks in sorted order.
func (l *Lazy) Suspended() []grid.Coord {
	out := make([]grid.Coord, 0, len(l.unloaded))
	for cc := range l.unloaded {
		out = append(out, cc)
	}
	slices.SortFunc(out, grid.Compare)
	return out
}

// Reset forgets every suspended chunk.
func (l *Lazy) Reset() { clear(l.unloaded) }
