// prism-window shows the software rasterizer's output in a desktop window.
// It takes the same flags and config file as prism.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/taigrr/prism/internal/config"
	"github.com/taigrr/prism/internal/logger"
	"github.com/taigrr/prism/internal/viewer"
)

func main() {
	config.ParseFlags()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting prism-window", viewer.HostFields()...)

	scene, err := viewer.NewScene(cfg, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}

	g := newWindowGame(scene)
	ebiten.SetWindowTitle("prism - " + scene.Name)
	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Viewer.FPS)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	logger.Info("window closed", zap.Int("frames", g.frames))
	return err
}
