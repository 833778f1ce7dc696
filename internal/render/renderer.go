//go:build ebiten

package render

import (
	"mad-sand/internal/grid"
	"mad-sand/internal/viewport"

	"github.com/hajimehoshi/ebiten/v2"
)

// Painter keeps a view-sized RGBA image in sync with the world.
type Painter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewPainter returns a painter; its image is allocated on first draw.
func NewPainter() *Painter { return &Painter{} }

// Draw rasterizes the visible chunks and draws them scaled by the camera zoom.
func (p *Painter) Draw(dst *ebiten.Image, cam viewport.Camera, src CellSource, chunks []grid.Coord, frame int) {
	view := cam.View()
	if view.W <= 0 || view.H <= 0 {
		return
	}
	if p.img == nil || p.w != view.W || p.h != view.H {
		if p.img != nil {
			p.img.Dispose()
		}
		p.w, p.h = view.W, view.H
		p.img = ebiten.NewImage(view.W, view.H)
		p.buf = make([]byte, 4*view.W*view.H)
	}
	FillView(p.buf, cam, src, chunks, frame)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(cam.Zoom()), float64(cam.Zoom()))
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image in cells.
func (p *Painter) Size() (int, int) { return p.w, p.h }
