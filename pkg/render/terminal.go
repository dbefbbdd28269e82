package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row holds two framebuffer rows, so the framebuffer
// height should be twice the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg = top pixel and bg = bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor maps a transparent pixel to the terminal default color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer presents framebuffers on an ultraviolet terminal.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int // Columns
	height int // Rows
}

// NewTerminalRenderer creates a renderer for a terminal of the given size
// in cells.
func NewTerminalRenderer(term *uv.Terminal, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: cols, height: rows}
}

// Resize records a new terminal size in cells.
func (t *TerminalRenderer) Resize(cols, rows int) {
	t.width = cols
	t.height = rows
}

// Size returns the terminal size in cells.
func (t *TerminalRenderer) Size() (int, int) {
	return t.width, t.height
}

// FramebufferSize returns the framebuffer dimensions that fill the
// terminal: one pixel per column and two per row.
func (t *TerminalRenderer) FramebufferSize() (int, int) {
	return t.width, t.height * 2
}

// Render draws fb into the terminal's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.term, uv.Rect(0, 0, t.width, t.height))
}

// Flush writes the pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}
