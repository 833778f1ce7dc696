package grid

import "cmp"

// Coord is an integer position on the unbounded plane. Y grows upwards.
type Coord struct {
	X, Y int
}

// Size describes the dimensions of a chunk.
type Size struct {
	W int
	H int
}

// Pt is shorthand for Coord{X: x, Y: y}.
func Pt(x, y int) Coord { return Coord{X: x, Y: y} }

// Add returns the component-wise sum of c and d.
func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

// Sub returns the component-wise difference c-d.
func (c Coord) Sub(d Coord) Coord { return Coord{X: c.X - d.X, Y: c.Y - d.Y} }

// DistSq returns the squared Euclidean distance between c and d.
func (c Coord) DistSq(d Coord) int {
	dx, dy := c.X-d.X, c.Y-d.Y
	return dx*dx + dy*dy
}

// Compare orders coordinates row by row: Y ascending, then X ascending.
func Compare(a, b Coord) int {
	if n := cmp.Compare(a.Y, b.Y); n != 0 {
		return n
	}
	return cmp.Compare(a.X, b.X)
}

// Compass lists the eight neighbor offsets in a fixed order:
// E, NE, N, NW, W, SW, S, SE.
var Compass = [8]Coord{
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
	{-1, 0},
	{-1, -1},
	{0, -1},
	{1, -1},
}

// Around returns c and its eight neighbors, c first.
func Around(c Coord) [9]Coord {
	out := [9]Coord{c}
	for i, d := range Compass {
		out[i+1] = c.Add(d)
	}
	return out
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a/b.
func mod(a, b int) int {
	return (a%b + b) % b
}
