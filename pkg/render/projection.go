package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrInvalidProjection is returned for projection parameters that cannot
// produce a usable perspective matrix.
var ErrInvalidProjection = errors.New("invalid projection")

// Projection is an immutable perspective projection.
type Projection struct {
	fov    float64
	aspect float64
	near   float64
	far    float64
	matrix math3d.Mat4
}

// NewProjection builds a perspective projection. fov is the vertical field
// of view in radians and aspect is width/height. Depth maps near to 0 and
// far to 1.
func NewProjection(fov, aspect, near, far float64) (*Projection, error) {
	switch {
	case fov <= 0 || fov >= math.Pi:
		return nil, fmt.Errorf("%w: fov %.3f outside (0, π)", ErrInvalidProjection, fov)
	case aspect <= 0:
		return nil, fmt.Errorf("%w: aspect %.3f must be positive", ErrInvalidProjection, aspect)
	case near < 0:
		return nil, fmt.Errorf("%w: near %.3f must not be negative", ErrInvalidProjection, near)
	case far <= near:
		return nil, fmt.Errorf("%w: far %.3f must exceed near %.3f", ErrInvalidProjection, far, near)
	}

	return &Projection{
		fov:    fov,
		aspect: aspect,
		near:   near,
		far:    far,
		matrix: math3d.Perspective(fov, aspect, near, far),
	}, nil
}

// WithAspect returns a copy of the projection for a new aspect ratio,
// for use after the output is resized.
func (p *Projection) WithAspect(aspect float64) (*Projection, error) {
	return NewProjection(p.fov, aspect, p.near, p.far)
}

// Matrix returns the projection matrix.
func (p *Projection) Matrix() math3d.Mat4 { return p.matrix }

// FOV returns the vertical field of view in radians.
func (p *Projection) FOV() float64 { return p.fov }

// Aspect returns the width/height ratio.
func (p *Projection) Aspect() float64 { return p.aspect }

// Near returns the near plane distance.
func (p *Projection) Near() float64 { return p.near }

// Far returns the far plane distance.
func (p *Projection) Far() float64 { return p.far }
