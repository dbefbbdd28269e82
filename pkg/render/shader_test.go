package render

import (
	"math"
	"testing"

	"github.com/taigrr/prism/pkg/math3d"
)

func upFacingPixel() PixelData {
	return PixelData{
		Position: math3d.Zero3(),
		Normal:   math3d.V3(0, 1, 0),
		Color:    math3d.V4(1, 1, 1, 1),
	}
}

func TestPhongDiffuse(t *testing.T) {
	tests := []struct {
		name  string
		light math3d.Vec3
		want  float64
	}{
		{"directly above", math3d.V3(0, 10, 0), 1},
		{"45 degrees", math3d.V3(10, 10, 0), math.Sqrt2 / 2},
		{"grazing", math3d.V3(10, 0, 0), 0},
		{"below surface", math3d.V3(0, -10, 0), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &PhongShader{Lights: []Light{{
				Color:            math3d.V4(1, 1, 1, 1),
				Position:         tc.light,
				DiffuseIntensity: 1,
			}}}

			got := s.Shade(math3d.V3(0, 5, 5), upFacingPixel())
			if math.Abs(got.X-tc.want) > 1e-9 {
				t.Errorf("diffuse = %v, want %v", got.X, tc.want)
			}
		})
	}
}

func TestPhongSpecular(t *testing.T) {
	light := Light{
		Color:             math3d.V4(1, 1, 1, 1),
		Position:          math3d.V3(0, 10, 0),
		SpecularIntensity: 0.5,
	}
	s := &PhongShader{Lights: []Light{light}}

	// Eye on the mirror direction sees the full highlight
	got := s.Shade(math3d.V3(0, 5, 0), upFacingPixel())
	if math.Abs(got.X-0.5) > 1e-9 {
		t.Errorf("peak specular = %v, want 0.5", got.X)
	}

	// A specular map scales the highlight
	p := upFacingPixel()
	p.Specular = 0.25
	p.HasSpecular = true
	got = s.Shade(math3d.V3(0, 5, 0), p)
	if math.Abs(got.X-0.125) > 1e-9 {
		t.Errorf("mapped specular = %v, want 0.125", got.X)
	}

	// Looking from below the reflection gives nothing, even with an even exponent
	got = s.Shade(math3d.V3(0, -5, 0), upFacingPixel())
	if got.X != 0 {
		t.Errorf("specular from behind = %v, want 0", got.X)
	}
}

func TestPhongAmbientAndAccumulation(t *testing.T) {
	p := upFacingPixel()
	p.Color = math3d.V4(0.5, 0.25, 1, 1)

	s := &PhongShader{Ambient: 0.5}
	got := s.Shade(math3d.V3(0, 5, 0), p)
	if got != math3d.V4(0.25, 0.125, 0.5, 1) {
		t.Errorf("ambient only = %v", got)
	}

	// Two overhead lights add without clamping
	s.Ambient = 0
	s.Lights = []Light{
		{Color: math3d.V4(1, 0, 0, 1), Position: math3d.V3(0, 10, 0), DiffuseIntensity: 1},
		{Color: math3d.V4(1, 0, 0, 1), Position: math3d.V3(0, 20, 0), DiffuseIntensity: 1},
	}
	got = s.Shade(math3d.V3(5, 5, 0), p)
	if math.Abs(got.X-2) > 1e-9 || got.Y != 0 {
		t.Errorf("two lights = %v, want red 2", got)
	}
}

func TestFlatColorShader(t *testing.T) {
	p := upFacingPixel()
	p.Color = math3d.V4(0.1, 0.2, 0.3, 1)
	if got := (FlatColorShader{}).Shade(math3d.Zero3(), p); got != p.Color {
		t.Errorf("flat shader changed the color: %v", got)
	}
}

func TestLambertShader(t *testing.T) {
	s := LambertShader{Direction: math3d.V3(0, 2, 0), Ambient: 0.2}

	lit := s.Shade(math3d.Zero3(), upFacingPixel())
	if math.Abs(lit.X-1) > 1e-9 {
		t.Errorf("facing light = %v, want 1", lit.X)
	}

	p := upFacingPixel()
	p.Normal = math3d.V3(0, -1, 0)
	dark := s.Shade(math3d.Zero3(), p)
	if math.Abs(dark.X-0.2) > 1e-9 {
		t.Errorf("facing away = %v, want ambient 0.2", dark.X)
	}
}

func BenchmarkPhongShade(b *testing.B) {
	s := &PhongShader{Ambient: 0.1, Lights: []Light{
		{Color: math3d.V4(1, 1, 1, 1), Position: math3d.V3(3, 5, 2), DiffuseIntensity: 0.8, SpecularIntensity: 0.5},
		{Color: math3d.V4(0.3, 0.3, 1, 1), Position: math3d.V3(-4, 2, 1), DiffuseIntensity: 0.5, SpecularIntensity: 0.2},
	}}
	eye := math3d.V3(0, 1, 5)
	p := upFacingPixel()

	for b.Loop() {
		s.Shade(eye, p)
	}
}
