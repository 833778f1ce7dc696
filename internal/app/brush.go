package app

import (
	"mad-sand/internal/engine"
	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
)

// MaxBrushSize caps the brush radius.
const MaxBrushSize = 32

// Brush paints squares of one particle type into the world.
type Brush struct {
	Type particle.ID
	Size int // radius; 0 paints a single cell
}

// Cells lists the cells covered by the brush at center, skipping anything
// below the floor.
func (b Brush) Cells(center grid.Coord) []grid.Coord {
	out := make([]grid.Coord, 0, (2*b.Size+1)*(2*b.Size+1))
	for y := center.Y + b.Size; y >= center.Y-b.Size; y-- {
		if y < 1 {
			break
		}
		for x := center.X - b.Size; x <= center.X+b.Size; x++ {
			out = append(out, grid.Pt(x, y))
		}
	}
	return out
}

// Paint fills the empty cells under the brush and returns how many it placed.
func (b Brush) Paint(e *engine.Engine, center grid.Coord) int {
	n := 0
	for _, p := range b.Cells(center) {
		if _, ok := e.Query(p); ok {
			continue
		}
		e.Place(p, b.Type)
		n++
	}
	return n
}

// Erase clears the cells under the brush and returns how many were occupied.
func (b Brush) Erase(e *engine.Engine, center grid.Coord) int {
	n := 0
	for _, p := range b.Cells(center) {
		if _, ok := e.Query(p); ok {
			e.Erase(p)
			n++
		}
	}
	return n
}

// Resize adds delta to the radius, clamped to [0, MaxBrushSize].
func (b *Brush) Resize(delta int) {
	b.Size = min(max(b.Size+delta, 0), MaxBrushSize)
}

// Cycle selects the next (dir > 0) or previous type in the table, wrapping.
func (b *Brush) Cycle(types *particle.Registry, dir int) {
	n := types.Len()
	if n == 0 || dir == 0 {
		return
	}
	step := 1
	if dir < 0 {
		step = n - 1
	}
	b.Type = particle.ID((int(b.Type) + step) % n)
}
