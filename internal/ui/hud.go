//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"

	"mad-sand/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ParameterSource is what the HUD panel reads and adjusts.
type ParameterSource interface {
	Parameters() core.ParameterSnapshot
	core.ParameterControlsProvider
	core.IntParameterSetter
}

// HUD draws the status text block and a panel of adjustable parameters
// anchored to the right edge of the screen.
type HUD struct {
	src      ParameterSource
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot
	controls []hudControl

	panelX int
	lines  []string
}

// NewHUD constructs a HUD with a panel of the given pixel width.
func NewHUD(src ParameterSource, width int) *HUD {
	h := &HUD{src: src, width: max(width, 0)}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	for i, ctrl := range src.ParameterControls() {
		if ctrl.Type != core.ParamTypeInt {
			continue
		}
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls = append(h.controls, hudControl{control: ctrl, top: top, minusRect: minus, plusRect: plus})
	}
	return h
}

// Contains reports whether a screen point falls on the panel.
func (h *HUD) Contains(x, _ int) bool {
	return h.width > 0 && x >= h.panelX
}

// Update refreshes parameter values and handles clicks on the panel.
// screenW positions the panel; status is the text block for this frame.
func (h *HUD) Update(screenW int, status Status) {
	h.panelX = screenW - h.width
	h.lines = status.Lines()
	h.snapshot = h.src.Parameters()
	h.refresh()

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if !h.Contains(mx, my) {
		return
	}
	px := mx - h.panelX
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case !c.hasValue:
		case c.minusRect.Min.X <= px && px < c.minusRect.Max.X && c.minusRect.Min.Y <= my && my < c.minusRect.Max.Y:
			h.adjust(c, -1)
			return
		case c.plusRect.Min.X <= px && px < c.plusRect.Max.X && c.plusRect.Min.Y <= my && my < c.plusRect.Max.Y:
			h.adjust(c, 1)
			return
		}
	}
}

func (h *HUD) refresh() {
	for i := range h.controls {
		c := &h.controls[i]
		c.value, c.hasValue = h.snapshot.Int(c.control.Key)
	}
}

func (h *HUD) adjust(c *hudControl, dir int) {
	target := c.control.Nudge(c.value, dir)
	if target != c.value && h.src.SetIntParameter(c.control.Key, target) {
		c.value = target
	}
}

// Draw paints the status text and the parameter panel.
func (h *HUD) Draw(screen *ebiten.Image) {
	face := basicfont.Face7x13
	for i, line := range h.lines {
		y := textTop + i*textSpacing
		// Drop shadow keeps the text readable over bright particles.
		text.Draw(screen, line, face, textLeft+1, y+1, color.Black)
		text.Draw(screen, line, face, textLeft, y, color.White)
	}
	if h.width <= 0 {
		return
	}

	height := screen.Bounds().Dy()
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Dispose()
		}
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 220})
	text.Draw(h.panel, "Controls", face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})

	y := controlsTop + len(h.controls)*lineHeight + infoSpacing
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
		y += textSpacing
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding+8, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
			y += textSpacing
		}
		y += textSpacing / 2
	}

	for i := range h.controls {
		c := &h.controls[i]
		label := c.control.Label
		value := "--"
		if c.hasValue {
			value = strconv.Itoa(c.value)
		}
		text.Draw(h.panel, label, face, panelPadding, c.top+labelBaseline, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueX := c.minusRect.Min.X - buttonGap - text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, valueX, c.top+labelBaseline, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		h.drawButton(c.minusRect, "-", c.hasValue && (!c.control.HasMin || c.value > c.control.Min))
		h.drawButton(c.plusRect, "+", c.hasValue && (!c.control.HasMax || c.value < c.control.Max))
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(h.panelX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

type hudControl struct {
	control  core.ParameterControl
	value    int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 24
	controlsTop    = panelPadding + headerBaseline + 14

	textLeft    = 10
	textTop     = 20
	textSpacing = 16
)
