package render

import (
	"image/color"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// PackColor converts a floating-point color to a 0xAARRGGBB pixel.
// Channels are clamped to [0,1] and rounded; alpha is always opaque.
func PackColor(c math3d.Vec4) uint32 {
	return 0xFF000000 |
		uint32(channel(c.X))<<16 |
		uint32(channel(c.Y))<<8 |
		uint32(channel(c.Z))
}

// Pack converts an 8-bit color to a 0xAARRGGBB pixel, keeping its alpha.
func Pack(c Color) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// UnpackColor splits a 0xAARRGGBB pixel into its channels.
func UnpackColor(p uint32) Color {
	return Color{
		R: uint8(p >> 16),
		G: uint8(p >> 8),
		B: uint8(p),
		A: uint8(p >> 24),
	}
}

// ColorVec converts an 8-bit color to floating point channels in [0,1].
func ColorVec(c Color) math3d.Vec4 {
	return math3d.V4(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255,
	)
}

func channel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(math.Round(v * 255))
	}
}
