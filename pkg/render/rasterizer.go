package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// VertexData is the per-vertex bundle assembled for each triangle corner.
type VertexData struct {
	Position  math3d.Vec3 // Object space
	Normal    math3d.Vec3 // Object space
	Transform math3d.Mat4 // Object to world
	Color     math3d.Vec4 // Flat tint
	TexCoord  math3d.Vec2
}

// FrameStats counts what happened to the geometry submitted since the last
// Clear.
type FrameStats struct {
	Triangles      int // Triangles submitted after fan expansion
	BackfaceCulled int
	NearRejected   int
	Degenerate     int // Zero or negative screen area
	Pixels         int // Pixels that passed the depth test and were shaded

	ModelsTested int
	ModelsCulled int
}

// Rasterizer draws models into a framebuffer with a depth buffer.
type Rasterizer struct {
	camera     *Camera
	projection *Projection
	fb         *Framebuffer
	zbuffer    []float64 // Eye-space depth, same layout as fb.Pixels

	// CullModels skips models whose bounds lie outside the view frustum
	// before any triangle work is done.
	CullModels bool

	Stats FrameStats
}

// NewRasterizer creates a rasterizer drawing into fb as seen from camera
// through projection.
func NewRasterizer(camera *Camera, projection *Projection, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:     camera,
		projection: projection,
		fb:         fb,
	}
	r.resize()
	r.ClearDepth()
	return r
}

// Camera returns the camera the rasterizer views from.
func (r *Rasterizer) Camera() *Camera { return r.camera }

// Projection returns the active projection.
func (r *Rasterizer) Projection() *Projection { return r.projection }

// Framebuffer returns the color buffer.
func (r *Rasterizer) Framebuffer() *Framebuffer { return r.fb }

// SetProjection replaces the projection, typically after a resize.
func (r *Rasterizer) SetProjection(p *Projection) { r.projection = p }

// SetFramebuffer replaces the color buffer; the depth buffer follows its
// size on the next Clear.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) { r.fb = fb }

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

func (r *Rasterizer) resize() {
	if n := r.fb.Width * r.fb.Height; len(r.zbuffer) != n {
		r.zbuffer = make([]float64, n)
	}
}

// Clear starts a new frame: the color buffer is filled with bg, the depth
// buffer is reset to the far value and the frame statistics are zeroed.
func (r *Rasterizer) Clear(bg uint32) {
	r.resize()
	r.fb.Clear(bg)
	r.ClearDepth()
	r.Stats = FrameStats{}
}

// ClearDepth resets every depth sample to math.MaxFloat64.
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// DepthAt returns the stored eye depth at a buffer pixel (row 0 at the top).
func (r *Rasterizer) DepthAt(x, y int) float64 {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.fb.Width+x]
}

// ViewProjection returns view·projection for the current camera.
func (r *Rasterizer) ViewProjection() math3d.Mat4 {
	return r.camera.ViewMatrix().Mul(r.projection.Matrix())
}

// Frustum returns the current view frustum without its far plane.
func (r *Rasterizer) Frustum() Frustum {
	f := NewFrustumFromMatrix(r.ViewProjection())
	f.IgnoreFar = true
	return f
}

// Visible reports whether any part of model may land on screen.
func (r *Rasterizer) Visible(model *Model) bool {
	return r.Frustum().IntersectAABB(model.Bounds())
}

// Draw rasterizes every face of model. Faces are split into fans anchored
// at their first corner. tint is used as the base color where no texture is
// bound; a nil shader draws unlit.
func (r *Rasterizer) Draw(model *Model, tint math3d.Vec4, shader PixelShader) {
	if shader == nil {
		shader = FlatColorShader{}
	}

	if r.CullModels {
		r.Stats.ModelsTested++
		if !r.Visible(model) {
			r.Stats.ModelsCulled++
			return
		}
	}

	mesh := model.Mesh()
	modelMat := model.Matrix()
	mvp := modelMat.Mul(r.ViewProjection())

	var tri [3]VertexData
	for _, face := range mesh.Faces {
		for i := 1; i+1 < len(face.Vertices); i++ {
			corners := [3]models.FaceVertex{face.Vertices[0], face.Vertices[i], face.Vertices[i+1]}
			for k, fv := range corners {
				tri[k] = VertexData{
					Position:  mesh.Positions[fv.Position],
					Normal:    mesh.Normals[fv.Normal],
					Transform: modelMat,
					Color:     tint,
				}
				if fv.HasTexCoord {
					tri[k].TexCoord = mesh.TexCoords[fv.TexCoord]
				}
			}
			r.drawTriangle(model, &tri, mvp, shader)
		}
	}
}

// drawTriangle runs one triangle through culling, scan conversion, depth
// testing and shading.
func (r *Rasterizer) drawTriangle(model *Model, tri *[3]VertexData, mvp math3d.Mat4, shader PixelShader) {
	r.Stats.Triangles++

	var world [3]math3d.Vec3
	for i := range 3 {
		world[i] = tri[i].Transform.MulVec3(tri[i].Position)
	}

	if r.isBackface(world) {
		r.Stats.BackfaceCulled++
		return
	}

	// No clipping: a triangle touching the near plane is dropped whole.
	var clip [3]math3d.Vec4
	for i := range 3 {
		clip[i] = mvp.MulVec4(math3d.V4FromV3(tri[i].Position, 1))
		if clip[i].Z <= 0 || clip[i].W <= 0 {
			r.Stats.NearRejected++
			return
		}
	}

	width := float64(r.fb.Width)
	height := float64(r.fb.Height)

	// Screen space with y pointing up; flipped when writing.
	var sx, sy, invW [3]float64
	for i := range 3 {
		sx[i] = clip[i].X/clip[i].W*width/2 + width/2
		sy[i] = clip[i].Y/clip[i].W*height/2 + height/2
		invW[i] = 1 / clip[i].W
	}

	// Corners are taken in reverse so counter-clockwise input gives a
	// positive area.
	area := edge(sx[2], sx[1], sy[2], sy[1], sx[0], sy[0])
	if area <= 0 {
		r.Stats.Degenerate++
		return
	}

	minX, maxX, okX := scanRange(min3(sx[0], sx[1], sx[2]), max3(sx[0], sx[1], sx[2]), r.fb.Width)
	minY, maxY, okY := scanRange(min3(sy[0], sy[1], sy[2]), max3(sy[0], sy[1], sy[2]), r.fb.Height)
	if !okX || !okY {
		return
	}

	normalMat := tri[0].Transform.Mat3()
	var normal [3]math3d.Vec3
	for i := range 3 {
		normal[i] = normalMat.MulVec3(tri[i].Normal).Normalize()
	}

	// Texture coordinates divided by clip w for perspective correction.
	var uvw [3]math3d.Vec2
	for i := range 3 {
		uvw[i] = tri[i].TexCoord.Scale(invW[i])
	}

	eye := r.camera.Eye
	hasMaps := model.Texture != nil || model.NormalMap != nil || model.SpecularMap != nil

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		row := (r.fb.Height - 1 - y) * r.fb.Width

		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			e1 := edge(sx[2], sx[1], sy[2], sy[1], px, py)
			e2 := edge(sx[1], sx[0], sy[1], sy[0], px, py)
			e3 := edge(sx[0], sx[2], sy[0], sy[2], px, py)
			if e1 < 0 || e2 < 0 || e3 < 0 {
				continue
			}

			b0 := e1 / area
			b1 := e3 / area
			b2 := e2 / area

			invZ := b0*invW[0] + b1*invW[1] + b2*invW[2]
			depth := 1 / invZ

			idx := row + x
			if depth >= r.zbuffer[idx] {
				continue
			}
			r.zbuffer[idx] = depth

			p := PixelData{
				Position: world[0].Scale(b0).Add(world[1].Scale(b1)).Add(world[2].Scale(b2)),
				Normal:   normal[0].Scale(b0).Add(normal[1].Scale(b1)).Add(normal[2].Scale(b2)).Normalize(),
				Color:    tri[0].Color.Scale(b0).Add(tri[1].Color.Scale(b1)).Add(tri[2].Color.Scale(b2)),
			}

			if hasMaps {
				uv := uvw[0].Scale(b0).Add(uvw[1].Scale(b1)).Add(uvw[2].Scale(b2)).Scale(depth)
				if model.Texture != nil {
					p.Color = model.Texture.SampleColor(uv.X, uv.Y)
				}
				if model.NormalMap != nil {
					p.Normal = model.NormalMap.SampleNormal(uv.X, uv.Y)
				}
				if model.SpecularMap != nil {
					p.Specular = model.SpecularMap.SampleSpecular(uv.X, uv.Y)
					p.HasSpecular = true
				}
			}

			r.fb.Pixels[idx] = PackColor(shader.Shade(eye, p))
			r.Stats.Pixels++
		}
	}
}

// isBackface reports whether the world-space triangle faces away from the
// camera eye. Zero-area triangles count as back-facing.
func (r *Rasterizer) isBackface(world [3]math3d.Vec3) bool {
	n := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
	toEye := r.camera.Eye.Sub(world[0]).Normalize()
	return toEye.Dot(n) <= 0
}

// edge is the signed area term of point (px, py) against the edge from a
// to b.
func edge(xa, xb, ya, yb, px, py float64) float64 {
	return (px-xa)*(yb-ya) - (py-ya)*(xb-xa)
}

// scanRange clamps the float span [lo, hi] to pixel indices [0, size-1].
// It reports false when the span misses the buffer or is not finite.
// Clamping happens before the int conversion, which is undefined for
// values outside the int range.
func scanRange(lo, hi float64, size int) (int, int, bool) {
	last := float64(size - 1)
	lo = math.Floor(lo)
	hi = math.Ceil(hi)
	if !(lo <= last && hi >= 0) {
		return 0, 0, false
	}
	return int(math.Max(0, lo)), int(math.Min(last, hi)), true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
