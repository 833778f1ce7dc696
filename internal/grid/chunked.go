package grid

import (
	"fmt"
	"iter"
	"slices"
)

// Chunked partitions the plane into fixed-size chunks, each a Sparse grid
// addressed by sub-chunk coordinates. Chunks are created on first write and
// dropped as soon as they become empty.
type Chunked[T any] struct {
	size   Size
	chunks map[Coord]*Sparse[T]
}

// NewChunked allocates an empty grid with the given chunk dimensions.
func NewChunked[T any](size Size) *Chunked[T] {
	if size.W <= 0 || size.H <= 0 {
		panic(fmt.Sprintf("grid: invalid chunk size %dx%d", size.W, size.H))
	}
	return &Chunked[T]{size: size, chunks: make(map[Coord]*Sparse[T])}
}

// ChunkSize returns the configured chunk dimensions.
func (g *Chunked[T]) ChunkSize() Size { return g.size }

// Split converts an absolute coordinate into its chunk coordinate and the
// position inside that chunk. Negative coordinates map to the chunk below or
// to the left, never to chunk zero.
func (g *Chunked[T]) Split(c Coord) (chunk, sub Coord) {
	chunk = Coord{X: floorDiv(c.X, g.size.W), Y: floorDiv(c.Y, g.size.H)}
	sub = Coord{X: mod(c.X, g.size.W), Y: mod(c.Y, g.size.H)}
	return chunk, sub
}

// Join is the inverse of Split.
func (g *Chunked[T]) Join(chunk, sub Coord) Coord {
	return Coord{X: chunk.X*g.size.W + sub.X, Y: chunk.Y*g.size.H + sub.Y}
}

// ChunkOf returns the chunk coordinate containing c.
func (g *Chunked[T]) ChunkOf(c Coord) Coord {
	chunk, _ := g.Split(c)
	return chunk
}

// Get returns the value stored at c.
func (g *Chunked[T]) Get(c Coord) (T, bool) {
	chunk, sub := g.Split(c)
	if ch, ok := g.chunks[chunk]; ok {
		return ch.Get(sub)
	}
	var zero T
	return zero, false
}

// Has reports whether c is occupied.
func (g *Chunked[T]) Has(c Coord) bool {
	_, ok := g.Get(c)
	return ok
}

// Set stores v at c, creating the owning chunk if needed.
func (g *Chunked[T]) Set(c Coord, v T) {
	chunk, sub := g.Split(c)
	ch, ok := g.chunks[chunk]
	if !ok {
		ch = NewSparse[T]()
		g.chunks[chunk] = ch
	}
	ch.Set(sub, v)
}

// Delete empties c and drops its chunk when nothing is left in it.
func (g *Chunked[T]) Delete(c Coord) {
	chunk, sub := g.Split(c)
	ch, ok := g.chunks[chunk]
	if !ok {
		return
	}
	ch.Delete(sub)
	if ch.Empty() {
		delete(g.chunks, chunk)
	}
}

// Chunk returns the chunk at the given chunk coordinate. It never returns an
// empty chunk. Callers must treat the result as read-only; writes have to go
// through Set and Delete to keep the no-empty-chunk invariant.
func (g *Chunked[T]) Chunk(chunk Coord) (*Sparse[T], bool) {
	ch, ok := g.chunks[chunk]
	return ch, ok
}

// Chunks iterates over live chunks in unspecified order.
func (g *Chunked[T]) Chunks() iter.Seq2[Coord, *Sparse[T]] {
	return func(yield func(Coord, *Sparse[T]) bool) {
		for c, ch := range g.chunks {
			if !yield(c, ch) {
				return
			}
		}
	}
}

// ChunkCoords returns the coordinates of all live chunks ordered by Compare.
func (g *Chunked[T]) ChunkCoords() []Coord {
	out := make([]Coord, 0, len(g.chunks))
	for c := range g.chunks {
		out = append(out, c)
	}
	slices.SortFunc(out, Compare)
	return out
}

// Len reports the number of live chunks.
func (g *Chunked[T]) Len() int { return len(g.chunks) }

// Cells reports the number of occupied cells across all chunks.
func (g *Chunked[T]) Cells() int {
	n := 0
	for _, ch := range g.chunks {
		n += ch.Len()
	}
	return n
}

// Clone deep-copies every live chunk.
func (g *Chunked[T]) Clone() *Chunked[T] {
	out := &Chunked[T]{size: g.size, chunks: make(map[Coord]*Sparse[T], len(g.chunks))}
	for c, ch := range g.chunks {
		out.chunks[c] = ch.Clone()
	}
	return out
}
