//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"mad-sand/internal/app"
	"mad-sand/internal/engine"
	"mad-sand/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flags := app.NewConfig()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	log, err := flags.Logger(os.Stderr)
	if err != nil {
		slog.Error("bad logging flags", "error", err)
		os.Exit(2)
	}
	slog.SetDefault(log)

	if err := run(flags, log); err != nil {
		log.Error("sand exited", "error", err)
		os.Exit(1)
	}
}

func run(flags *app.Config, log *slog.Logger) error {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}
	types, err := cfg.ParticleTable()
	if err != nil {
		return err
	}

	rec, err := telemetry.NewRecorder(cfg.Telemetry, log)
	if err != nil {
		return err
	}
	if err := rec.Output().WriteConfig(cfg); err != nil {
		return err
	}

	eng := engine.New(cfg.EngineConfig(), types,
		engine.WithLogger(log.With("component", "engine")),
		engine.WithPhaseTimer(rec.Perf),
	)
	game, err := app.New(cfg, eng, rec, log)
	if err != nil {
		return errors.Join(err, rec.Close())
	}

	ebiten.SetWindowTitle("mad-sand — " + cfg.Scenario)
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	return errors.Join(err, game.Close())
}
