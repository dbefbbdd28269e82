package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// PhongShininess is the specular exponent used by PhongShader.
const PhongShininess = 20

// Light is a point light in world space.
type Light struct {
	Color             math3d.Vec4
	Position          math3d.Vec3
	DiffuseIntensity  float64
	SpecularIntensity float64
}

// PixelData is the per-pixel bundle handed to a shader after interpolation.
type PixelData struct {
	Position math3d.Vec3 // World space
	Normal   math3d.Vec3 // World space, unit length unless degenerate
	Color    math3d.Vec4 // Texture or tint color

	// Specular is the specular map coefficient; only meaningful when
	// HasSpecular is set.
	Specular    float64
	HasSpecular bool
}

// PixelShader computes the final color of a covered pixel.
type PixelShader interface {
	Shade(eye math3d.Vec3, p PixelData) math3d.Vec4
}

// FlatColorShader returns the pixel color unlit.
type FlatColorShader struct{}

// Shade implements PixelShader.
func (FlatColorShader) Shade(_ math3d.Vec3, p PixelData) math3d.Vec4 {
	return p.Color
}

// PhongShader accumulates ambient, diffuse and specular terms over a set of
// point lights. Results are not clamped; PackColor saturates on write.
//
// The specular dot product is clamped to zero before it is raised to
// PhongShininess, so a reflection pointing away from the viewer adds no
// highlight. An unclamped negative dot under the even exponent would light
// the back of the lobe.
type PhongShader struct {
	Lights  []Light
	Ambient float64
}

// Shade implements PixelShader.
func (s *PhongShader) Shade(eye math3d.Vec3, p PixelData) math3d.Vec4 {
	out := p.Color.Scale(s.Ambient)
	out.W = p.Color.W

	specScale := 1.0
	if p.HasSpecular {
		specScale = p.Specular
	}

	viewDir := eye.Sub(p.Position).Normalize()

	for i := range s.Lights {
		l := &s.Lights[i]
		toLight := l.Position.Sub(p.Position).Normalize()

		diffuse := math.Max(0, p.Normal.Dot(toLight)) * l.DiffuseIntensity

		// The dot is clamped before pow so even exponents cannot light
		// surfaces facing away from the reflection.
		reflected := toLight.Reflect(p.Normal)
		spec := math.Pow(math.Max(0, viewDir.Dot(reflected)), PhongShininess)
		spec *= l.SpecularIntensity * specScale

		out.X += l.Color.X * (diffuse + spec)
		out.Y += l.Color.Y * (diffuse + spec)
		out.Z += l.Color.Z * (diffuse + spec)
	}

	return out
}

// LambertShader lights the surface with a single directional light and no
// specular term.
type LambertShader struct {
	// Direction points from the surface toward the light.
	Direction math3d.Vec3
	Ambient   float64
}

// Shade implements PixelShader.
func (s LambertShader) Shade(_ math3d.Vec3, p PixelData) math3d.Vec4 {
	intensity := math.Max(0, p.Normal.Dot(s.Direction.Normalize()))
	shade := s.Ambient + (1-s.Ambient)*intensity
	return math3d.V4(p.Color.X*shade, p.Color.Y*shade, p.Color.Z*shade, p.Color.W)
}
