//go:build ebiten

package app

import (
	"errors"
	"log/slog"
	"time"

	"mad-sand/internal/config"
	"mad-sand/internal/core"
	"mad-sand/internal/engine"
	"mad-sand/internal/grid"
	"mad-sand/internal/render"
	"mad-sand/internal/scenario"
	"mad-sand/internal/telemetry"
	"mad-sand/internal/ui"
	"mad-sand/internal/viewport"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 220

// Game adapts the falling-sand engine to the ebiten.Game interface.
type Game struct {
	cfg  *config.Config
	eng  *engine.Engine
	rec  *telemetry.Recorder
	log  *slog.Logger
	step *core.FixedStep

	cam     viewport.Camera
	lazy    *viewport.Lazy
	painter *render.Painter
	hud     *ui.HUD
	overlay *ui.Overlay

	brush    Brush
	scenario string
	seed     int64
	frame    int
	screenW  int
	tickOnce bool
	visible  []grid.Coord
}

// New constructs a Game around a ready engine. The configured scenario is
// loaded immediately.
func New(cfg *config.Config, eng *engine.Engine, rec *telemetry.Recorder, log *slog.Logger) (*Game, error) {
	brushType, err := cfg.BrushType(eng.Types())
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		eng:      eng,
		rec:      rec,
		log:      log,
		step:     core.NewFixedStep(cfg.Screen.TPS),
		cam:      viewport.NewCamera(cfg.Screen.Width, cfg.Screen.Height, cfg.Viewport.Zoom),
		lazy:     viewport.NewLazy(cfg.Viewport.Lazy, cfg.Viewport.LazyMargin),
		painter:  render.NewPainter(),
		hud:      ui.NewHUD(eng, hudWidth),
		overlay:  ui.NewOverlay(),
		brush:    Brush{Type: brushType, Size: cfg.Brush.Size},
		scenario: cfg.Scenario,
		seed:     cfg.Engine.Seed,
		screenW:  cfg.Screen.Width,
	}
	if err := g.Reset(g.seed); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset reloads the scenario with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.tickOnce = false
	g.lazy.Reset()
	if err := scenario.Load(g.eng, g.scenario, seed); err != nil {
		return err
	}
	g.log.Info("scenario loaded", "scenario", g.scenario, "seed", seed, "particles", g.eng.Particles())
	return nil
}

// Close flushes telemetry.
func (g *Game) Close() error {
	if g.rec == nil {
		return nil
	}
	return g.rec.Close()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.step.SetPaused(!g.step.Paused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	g.updateCamera()
	g.updateBrush()
	g.overlay.Update()
	g.hud.Update(g.screenW, g.status())

	mx, my := ebiten.CursorPosition()
	if !g.hud.Contains(mx, my) {
		at := g.cam.FromScreen(mx, my)
		switch {
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
			g.brush.Paint(g.eng, at)
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
			g.brush.Erase(g.eng, at)
		}
	}

	g.visible = g.lazy.Update(g.eng, g.cam)

	n := g.step.Ticks()
	if g.tickOnce {
		n, g.tickOnce = 1, false
	}
	for range n {
		g.eng.Step()
		if g.rec == nil {
			continue
		}
		if err := g.rec.Observe(g.eng.Stats()); err != nil {
			return errors.Join(err, g.Close())
		}
	}
	g.frame++
	return nil
}

func (g *Game) updateCamera() {
	speed := g.cfg.Viewport.CameraSpeed
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		g.cam.Pan(-speed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		g.cam.Pan(speed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.cam.Pan(0, speed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		g.cam.Pan(0, -speed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.cam.SetZoom(g.cam.Zoom() - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.cam.SetZoom(g.cam.Zoom() + 1)
	}
}

func (g *Game) updateBrush() {
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.brush.Resize(1)
	} else if dy < 0 {
		g.brush.Resize(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.brush.Cycle(g.eng.Types(), 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.brush.Cycle(g.eng.Types(), -1)
	}
}

func (g *Game) status() ui.Status {
	s := ui.Status{
		FPS:       ebiten.ActualFPS(),
		TPS:       float64(g.step.TPS()),
		Tick:      g.eng.Tick(),
		Paused:    g.step.Paused(),
		Brush:     g.eng.Types().Name(g.brush.Type),
		BrushSize: g.brush.Size,
		Zoom:      g.cam.Zoom(),
		Scenario:  g.scenario,
		Active:    len(g.eng.ActiveChunks()),
		Chunks:    len(g.eng.ChunkCoords()),
		Particles: g.eng.Particles(),
		Suspended: len(g.lazy.Suspended()),
		Debug:     g.overlay.Debug(),
	}
	if s.Debug && g.rec != nil {
		s.Perf = g.rec.Perf.Stats()
	}
	at := g.cam.FromScreen(ebiten.CursorPosition())
	c, ok := g.eng.Query(at)
	s.Hover = ui.HoverText(g.eng.Types(), at, c, ok)
	return s
}

// Draw renders the visible world, the debug overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)
	g.painter.Draw(screen, g.cam, g.eng, g.visible, g.frame)
	g.overlay.DrawChunks(screen, g.cam, g.eng.ChunkSize(), g.eng.ChunkCoords(), g.eng, g.lazy)

	at := g.cam.FromScreen(ebiten.CursorPosition())
	base := g.eng.Types().Type(g.brush.Type).Color
	g.overlay.DrawBrush(screen, g.cam, at, g.brush.Size, render.BrushColor(base, g.frame))
	g.hud.Draw(screen)
}

// Layout follows the window size so resizing shows more of the world.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW = outsideWidth
	g.cam.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
