package main

import (
	"fmt"
	"time"

	"github.com/taigrr/prism/internal/viewer"
)

// HUD renders an overlay with model info and render stats.
type HUD struct {
	scene     *viewer.Scene
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD for scene.
func NewHUD(scene *viewer.Scene) *HUD {
	return &HUD{
		scene:   scene,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal. The top and bottom
// rows are cleared first so that toggling the HUD off erases it.
func (h *HUD) Render(width, height int) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !h.scene.ShowHUD {
		return
	}

	// Top: FPS, model name, triangle count
	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	name := h.scene.Name
	titleCol := max((width-len(name)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, name, reset)

	tris := fmt.Sprintf(" %d tris ", h.scene.Model.Mesh().TriangleCount())
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max(width-len(tris), 1)), bgBlack, fgCyan, bold, tris, reset)

	// Bottom: shader, spin and what the last frame did
	st := h.scene.Rasterizer.Stats
	spin := "[ ]"
	if h.scene.Spinning() {
		spin = "[✓]"
	}
	fmt.Printf("%s%s%s %s  %s spin  culled %d  near %d  pixels %d %s",
		moveTo(height, 1), bgBlack, fgWhite,
		h.scene.Shader(), spin, st.BackfaceCulled, st.NearRejected, st.Pixels, reset)
}
