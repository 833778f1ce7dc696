//go:build ebiten

package ui

import (
	"image/color"

	"mad-sand/internal/grid"
	"mad-sand/internal/viewport"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	activeChunkColor    = color.RGBA{R: 150, G: 50, B: 50, A: 255}
	dormantChunkColor   = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	suspendedChunkColor = color.RGBA{R: 50, G: 80, B: 160, A: 255}
)

// ChunkState answers the overlay's per-chunk questions.
type ChunkState interface {
	IsActive(cc grid.Coord) bool
}

// Overlay draws optional debugging visuals on top of the world.
type Overlay struct {
	showChunks bool
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) || inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		o.showChunks = !o.showChunks
	}
}

// Debug reports whether the debug layers are on.
func (o *Overlay) Debug() bool { return o.showChunks }

// DrawChunks outlines chunks: active ones red, dormant ones gray and ones the
// lazy loader suspended blue.
func (o *Overlay) DrawChunks(screen *ebiten.Image, cam viewport.Camera, size grid.Size, chunks []grid.Coord, state ChunkState, lazy *viewport.Lazy) {
	if !o.showChunks {
		return
	}
	z := cam.Zoom()
	for _, cc := range chunks {
		col := dormantChunkColor
		switch {
		case state.IsActive(cc):
			col = activeChunkColor
		case lazy != nil && lazy.Unloaded(cc):
			col = suspendedChunkColor
		}
		vx, vy := cam.ToView(grid.Coord{X: cc.X * size.W, Y: cc.Y*size.H + size.H - 1})
		o.strokeRect(screen, vx*z, vy*z, size.W*z, size.H*z, col)
	}
}

// DrawBrush outlines the square brush of the given radius around center.
func (o *Overlay) DrawBrush(screen *ebiten.Image, cam viewport.Camera, center grid.Coord, radius int, col color.RGBA) {
	z := cam.Zoom()
	vx, vy := cam.ToView(grid.Coord{X: center.X - radius, Y: center.Y + radius})
	side := (2*radius + 1) * z
	o.strokeRect(screen, vx*z, vy*z, side, side, col)
}

func (o *Overlay) strokeRect(screen *ebiten.Image, x, y, w, h int, col color.RGBA) {
	o.fillRect(screen, x, y, w, 1, col)
	o.fillRect(screen, x, y+h-1, w, 1, col)
	o.fillRect(screen, x, y, 1, h, col)
	o.fillRect(screen, x+w-1, y, 1, h, col)
}

func (o *Overlay) fillRect(screen *ebiten.Image, x, y, w, h int, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
