package render

import (
	"image/color"
	"math"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/viewport"
)

// Background is the color of empty space.
var Background = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// CellSource is the read side of the engine used for drawing.
type CellSource interface {
	Chunk(cc grid.Coord) (*grid.Sparse[particle.Cell], bool)
	Cell(cc, sub grid.Coord) grid.Coord
	Types() *particle.Registry
}

// Brightness returns the shading factor for a particle of the given render
// class drawn at p. Liquids shimmer over time, powders get a fixed diagonal
// dither, solids are flat.
func Brightness(class particle.Class, p grid.Coord, frame int) float64 {
	switch class {
	case particle.Liquid:
		deg := float64(frame*5 + (p.X+p.Y)*30)
		return (math.Sin(deg*math.Pi/180)+1)/8 + 0.75
	case particle.Powder:
		return float64(((p.X+p.Y)%3+3)%3)/8 + 0.75
	default:
		return 1
	}
}

// BrushColor pulses base slowly so the brush outline stands out.
func BrushColor(base color.RGBA, frame int) color.RGBA {
	deg := float64(frame * 2)
	return Shade(base, (math.Sin(deg*math.Pi/180)+1)/4+0.75)
}

// Shade scales the RGB channels of c by k, saturating at 255.
func Shade(c color.RGBA, k float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(float64(v)*k, 255))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// FillView rasterizes chunks into buf at one pixel per cell. buf must hold
// View().W*View().H RGBA pixels; cells outside the view are skipped.
func FillView(buf []byte, cam viewport.Camera, src CellSource, chunks []grid.Coord, frame int) {
	view := cam.View()
	fillRGBA(buf, Background)
	types := src.Types()
	for _, cc := range chunks {
		chunk, ok := src.Chunk(cc)
		if !ok {
			continue
		}
		for sub, c := range chunk.All() {
			p := src.Cell(cc, sub)
			vx, vy := cam.ToView(p)
			if vx < 0 || vy < 0 || vx >= view.W || vy >= view.H {
				continue
			}
			t := types.Type(c.Type)
			setRGBA(buf, (vy*view.W+vx)*4, Shade(t.Color, Brightness(t.Render, p, frame)))
		}
	}
}

func fillRGBA(buf []byte, c color.RGBA) {
	for i := 0; i+3 < len(buf); i += 4 {
		setRGBA(buf, i, c)
	}
}

func setRGBA(buf []byte, base int, c color.RGBA) {
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}
