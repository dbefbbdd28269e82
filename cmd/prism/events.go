package main

import (
	"context"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/prism/internal/logger"
	"github.com/taigrr/prism/internal/viewer"
	"github.com/taigrr/prism/pkg/render"
)

// readEvents translates terminal events into scene updates. It never
// touches the scene itself; the frame loop runs each update between frames.
func readEvents(term *uv.Terminal, tr *render.TerminalRenderer, scene *viewer.Scene, updates chan<- func(), cancel context.CancelFunc) {
	var mouseDown bool
	var lastX, lastY int

	for ev := range term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			w, h := ev.Width, ev.Height
			updates <- func() {
				term.Erase()
				term.Resize(w, h)
				tr.Resize(w, h)
				if err := scene.Resize(tr.FramebufferSize()); err != nil {
					logger.Warn("resize failed", zap.Error(err))
				}
			}

		case uv.KeyPressEvent:
			action := matchKey(ev)
			if action == viewer.ActionQuit {
				cancel()
				return
			}
			if action != viewer.ActionNone {
				updates <- func() { scene.Apply(action) }
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastX, lastY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				// Cells are two framebuffer pixels tall
				dx, dy := ev.X-lastX, (ev.Y-lastY)*2
				lastX, lastY = ev.X, ev.Y
				updates <- func() { scene.Drag(dx, dy) }
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				updates <- func() { scene.Apply(viewer.ActionMoveForward) }
			case uv.MouseWheelDown:
				updates <- func() { scene.Apply(viewer.ActionMoveBack) }
			}
		}
	}
}

// matchKey returns the action bound to a key press.
func matchKey(ev uv.KeyPressEvent) viewer.Action {
	for _, name := range viewer.KeyNames() {
		if ev.MatchString(name) {
			return viewer.KeyAction(name)
		}
	}
	return viewer.ActionNone
}
