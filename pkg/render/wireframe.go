package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// DrawWireframe draws every face edge of model as a line. Edges with an
// endpoint on or behind the near plane are skipped, matching the filled
// path. Lines ignore the depth buffer.
func (r *Rasterizer) DrawWireframe(model *Model, color uint32) {
	mesh := model.Mesh()
	mvp := model.Matrix().Mul(r.ViewProjection())

	for _, face := range mesh.Faces {
		n := len(face.Vertices)
		for i := range n {
			a := mesh.Positions[face.Vertices[i].Position]
			b := mesh.Positions[face.Vertices[(i+1)%n].Position]
			r.drawClipLine(mvp, a, b, color)
		}
	}
}

// DrawLine3D draws a world-space line segment.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color uint32) {
	r.drawClipLine(r.ViewProjection(), a, b, color)
}

// DrawAxes draws the world axes from the origin in red, green and blue.
func (r *Rasterizer) DrawAxes(length float64) {
	origin := math3d.Zero3()
	r.DrawLine3D(origin, math3d.V3(length, 0, 0), Pack(ColorRed))
	r.DrawLine3D(origin, math3d.V3(0, length, 0), Pack(ColorGreen))
	r.DrawLine3D(origin, math3d.V3(0, 0, length), Pack(ColorBlue))
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (r *Rasterizer) DrawGrid(size, step float64, color uint32) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		r.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		r.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}

func (r *Rasterizer) drawClipLine(m math3d.Mat4, a, b math3d.Vec3, color uint32) {
	ca := m.MulVec4(math3d.V4FromV3(a, 1))
	cb := m.MulVec4(math3d.V4FromV3(b, 1))
	if ca.Z <= 0 || cb.Z <= 0 || ca.W <= 0 || cb.W <= 0 {
		return
	}

	x0, y0 := r.toScreen(ca)
	x1, y1 := r.toScreen(cb)
	if !clipSegment(&x0, &y0, &x1, &y1, float64(r.fb.Width), float64(r.fb.Height)) {
		return
	}
	top := r.fb.Height - 1
	r.fb.DrawLine(int(x0), top-int(y0), int(x1), top-int(y1), color)
}

// toScreen maps a clip-space point to screen coordinates with y up.
func (r *Rasterizer) toScreen(c math3d.Vec4) (float64, float64) {
	w := float64(r.fb.Width)
	h := float64(r.fb.Height)
	return c.X/c.W*w/2 + w/2, c.Y/c.W*h/2 + h/2
}

// clipSegment trims the segment to [0, w) x [0, h) using Liang-Barsky.
// It reports false when nothing of the segment is inside or an endpoint
// is not finite.
func clipSegment(x0, y0, x1, y1 *float64, w, h float64) bool {
	for _, v := range [4]float64{*x0, *y0, *x1, *y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	maxX := math.Nextafter(w, 0)
	maxY := math.Nextafter(h, 0)
	dx := *x1 - *x0
	dy := *y1 - *y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, *x0},
		{dx, maxX - *x0},
		{-dy, *y0},
		{dy, maxY - *y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = math.Min(t1, t)
		}
	}
	sx, sy := *x0, *y0
	*x0, *y0 = clamp(sx+t0*dx, 0, maxX), clamp(sy+t0*dy, 0, maxY)
	*x1, *y1 = clamp(sx+t1*dx, 0, maxX), clamp(sy+t1*dy, 0, maxY)
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
