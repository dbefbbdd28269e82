// prism - Terminal 3D Model Viewer
// Rasterizes OBJ and glTF models in software and shows them in the terminal.
//
// Controls:
//
//	W/S/A/D     - Move camera forward/back/left/right
//	Arrows      - Turn and tilt camera
//	Mouse drag  - Turn camera
//	Scroll      - Move camera forward/back
//	J/L I/K U/O - Rotate model (yaw, pitch, roll)
//	Space       - Toggle spin
//	Tab         - Cycle shader (phong, lambert, flat, wireframe)
//	R           - Reset view
//	G           - Toggle ground grid and axes
//	?           - Toggle HUD overlay
//	Q/Esc       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/prism/internal/config"
	"github.com/taigrr/prism/internal/logger"
	"github.com/taigrr/prism/internal/viewer"
	"github.com/taigrr/prism/pkg/render"
)

var (
	pngPath    = flag.String("png", "", "Render one frame to this PNG file and exit")
	benchCount = flag.Int("bench", 0, "Render this many frames headless, log timings and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "prism - Terminal 3D Model Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: prism [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model the built-in cube is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move camera\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Turn and tilt camera\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Turn camera\n")
		fmt.Fprintf(os.Stderr, "  J/L I/K U/O - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Space       - Toggle spin\n")
		fmt.Fprintf(os.Stderr, "  Tab         - Cycle shader\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  G           - Toggle grid and axes\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc       - Quit\n")
	}
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

	headless := *pngPath != "" || *benchCount > 0
	if err := initLogging(cfg, headless); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting prism", viewer.HostFields()...)

	switch {
	case *pngPath != "":
		return snapshot(cfg, *pngPath)
	case *benchCount > 0:
		return bench(cfg, *benchCount)
	default:
		return runTerminal(cfg)
	}
}

// initLogging sends logs to stderr in headless modes. The terminal viewer
// owns the screen, so there logs go to the log file or nowhere.
func initLogging(cfg *config.Config, headless bool) error {
	if headless {
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, false)
}

// snapshot renders a single frame at the configured size.
func snapshot(cfg *config.Config, path string) error {
	scene, err := viewer.NewScene(cfg, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}

	fb := scene.Render()
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	st := scene.Rasterizer.Stats
	logger.Info("snapshot written",
		zap.String("path", path),
		zap.Int("width", fb.Width),
		zap.Int("height", fb.Height),
		zap.Int("triangles", st.Triangles),
		zap.Int("pixels", st.Pixels),
	)
	return nil
}

// bench renders n spinning frames without presenting them.
func bench(cfg *config.Config, n int) error {
	cfg.Viewer.Spin = true
	scene, err := viewer.NewScene(cfg, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}

	var pixels int
	start := time.Now()
	for range n {
		scene.Frame()
		pixels += scene.Rasterizer.Stats.Pixels
	}
	elapsed := time.Since(start)

	fields := append(viewer.HostFields(),
		zap.Int("frames", n),
		zap.Duration("elapsed", elapsed),
		zap.Float64("fps", float64(n)/elapsed.Seconds()),
		zap.Duration("per_frame", elapsed/time.Duration(n)),
		zap.Float64("pixels_per_frame", float64(pixels)/float64(n)),
	)
	logger.Info("benchmark done", fields...)
	return nil
}

func runTerminal(cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	scene, err := viewer.NewScene(cfg, fbWidth, fbHeight)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Events are turned into scene updates and applied by the frame loop
	// between frames.
	updates := make(chan func(), 64)
	go readEvents(term, termRenderer, scene, updates, cancel)

	hud := NewHUD(scene)
	targetDuration := time.Second / time.Duration(cfg.Viewer.FPS)

	for {
		frameStart := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				return nil
			case update := <-updates:
				update()
			default:
				break drain
			}
		}

		fb := scene.Frame()
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(termRenderer.Size())

		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
