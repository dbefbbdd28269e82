package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/prism/internal/viewer"
)

// Key repeat timing in ticks.
const (
	repeatDelay    = 15
	repeatInterval = 3
)

// keyNames spells window keys the way viewer.KeyAction expects.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyW:          "w",
	ebiten.KeyS:          "s",
	ebiten.KeyA:          "a",
	ebiten.KeyD:          "d",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowRight: "right",
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyJ:          "j",
	ebiten.KeyL:          "l",
	ebiten.KeyI:          "i",
	ebiten.KeyK:          "k",
	ebiten.KeyU:          "u",
	ebiten.KeyO:          "o",
	ebiten.KeySpace:      "space",
	ebiten.KeyTab:        "tab",
	ebiten.KeyG:          "g",
	ebiten.KeyR:          "r",
	ebiten.KeyQ:          "q",
	ebiten.KeyEscape:     "escape",
}

// windowGame adapts a viewer.Scene to ebiten's game loop. Input and the
// model rotation advance in Update; Draw rasterizes and uploads the frame.
type windowGame struct {
	scene *viewer.Scene

	fbImg  *ebiten.Image
	frames int

	dragging     bool
	lastX, lastY int
}

func newWindowGame(scene *viewer.Scene) *windowGame {
	return &windowGame{scene: scene}
}

func (g *windowGame) Update() error {
	for key, name := range keyNames {
		if !repeating(key) {
			continue
		}
		if !g.scene.Apply(viewer.KeyAction(name)) {
			return ebiten.Termination
		}
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.scene.Drag(x-g.lastX, y-g.lastY)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y

	if _, dy := ebiten.Wheel(); dy > 0 {
		g.scene.Apply(viewer.ActionMoveForward)
	} else if dy < 0 {
		g.scene.Apply(viewer.ActionMoveBack)
	}

	g.scene.Step()
	return nil
}

// repeating reports a fresh press, then repeats while the key is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	fb := g.scene.Render()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.Width || g.fbImg.Bounds().Dy() != fb.Height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.Width, fb.Height)
	}

	g.fbImg.WritePixels(fb.ToImage().Pix)
	screen.DrawImage(g.fbImg, nil)
	g.frames++
}

// Layout keeps the configured render resolution; ebiten scales it to the
// window.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.scene.Rasterizer.Framebuffer()
	return fb.Width, fb.Height
}
