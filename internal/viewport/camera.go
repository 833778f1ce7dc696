// Package viewport maps between screen pixels and world cells and decides
// which chunks are close enough to the view to stay simulated.
package viewport

import (
	"math"

	"mad-sand/internal/grid"
)

// Camera is a zoomable window onto the world. World y grows upward while
// screen y grows downward; X and Y offset the view in cells.
type Camera struct {
	X, Y int

	screenW, screenH int
	zoom             int
}

// NewCamera creates a camera for a screen of the given pixel size. The view
// starts slightly raised so the floor is visible near the bottom edge.
func NewCamera(screenW, screenH, zoom int) Camera {
	c := Camera{screenW: screenW, screenH: screenH}
	c.SetZoom(zoom)
	c.Y = int(math.Round(float64(c.View().H) * 0.2))
	return c
}

// Zoom returns the number of screen pixels per cell.
func (c Camera) Zoom() int { return c.zoom }

// SetZoom changes the pixels per cell, clamped to at least 1.
func (c *Camera) SetZoom(z int) {
	c.zoom = max(1, z)
}

// Resize updates the screen dimensions.
func (c *Camera) Resize(screenW, screenH int) {
	c.screenW, c.screenH = screenW, screenH
}

// View returns the visible area in cells.
func (c Camera) View() grid.Size {
	return grid.Size{W: c.screenW / c.zoom, H: c.screenH / c.zoom}
}

// Pan moves the camera by the given number of cells.
func (c *Camera) Pan(dx, dy int) {
	c.X += dx
	c.Y += dy
}

// ToView converts a world cell into view cell coordinates, top-left origin.
func (c Camera) ToView(p grid.Coord) (int, int) {
	return p.X - c.X, (c.View().H - p.Y) - c.Y
}

// FromView converts view cell coordinates back into a world cell.
func (c Camera) FromView(vx, vy int) grid.Coord {
	return grid.Coord{X: vx + c.X, Y: c.View().H - (vy + c.Y)}
}

// FromScreen converts a pixel position into the world cell under it.
func (c Camera) FromScreen(px, py int) grid.Coord {
	return c.FromView(px/c.zoom, py/c.zoom)
}

// ChunkVisible reports whether chunk cc lies within the view widened by
// margin chunks on every side.
func (c Camera) ChunkVisible(cc grid.Coord, size grid.Size, margin int) bool {
	view := c.View()
	// Top-left corner of the chunk in view space.
	vx, vy := c.ToView(grid.Coord{X: cc.X * size.W, Y: cc.Y*size.H + size.H})
	mx, my := size.W*margin, size.H*margin
	return -mx < vx && vx < view.W+mx && -my < vy && vy < view.H+my
}
