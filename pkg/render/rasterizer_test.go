package render

import (
	"flag"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

var update = flag.Bool("update", false, "rewrite golden images in testdata")

var (
	red   = math3d.V4(1, 0, 0, 1)
	blue  = math3d.V4(0, 0, 1, 1)
	white = math3d.V4(1, 1, 1, 1)
)

// newTestRasterizer returns a rasterizer with the camera at the origin
// looking down -Z through a square 90 degree projection.
func newTestRasterizer(t testing.TB, width, height int) *Rasterizer {
	t.Helper()
	proj, err := NewProjection(math.Pi/2, float64(width)/float64(height), 0.1, 100)
	if err != nil {
		t.Fatalf("NewProjection: %v", err)
	}
	r := NewRasterizer(NewCamera(math3d.Zero3(), 1), proj, NewFramebuffer(width, height))
	r.Clear(0)
	return r
}

// polygonModel builds a single-face model with a flat normal.
func polygonModel(points ...math3d.Vec3) *Model {
	mesh := models.NewMesh("polygon")
	mesh.Positions = points
	mesh.Normals = []math3d.Vec3{
		points[1].Sub(points[0]).Cross(points[2].Sub(points[0])).Normalize(),
	}
	face := models.Face{Material: -1}
	for i := range points {
		face.Vertices = append(face.Vertices, models.FaceVertex{Position: i})
	}
	mesh.Faces = []models.Face{face}
	mesh.CalculateBounds()
	return NewModel(mesh)
}

func countPixels(fb *Framebuffer, c uint32) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestDrawFrontFacingTriangle(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	tri := polygonModel(math3d.V3(-1, -1, -5), math3d.V3(1, -1, -5), math3d.V3(0, 1, -5))

	r.Draw(tri, red, FlatColorShader{})

	if r.Stats.Pixels == 0 {
		t.Fatal("front-facing triangle drew no pixels")
	}
	if got := countPixels(r.Framebuffer(), PackColor(red)); got != r.Stats.Pixels {
		t.Errorf("red pixels = %d, stats report %d", got, r.Stats.Pixels)
	}
	if r.Stats.Triangles != 1 {
		t.Errorf("Triangles = %d, want 1", r.Stats.Triangles)
	}
}

func TestBackfaceCulled(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	// Clockwise as seen from the camera
	tri := polygonModel(math3d.V3(-1, -1, -5), math3d.V3(0, 1, -5), math3d.V3(1, -1, -5))

	r.Draw(tri, red, FlatColorShader{})

	if r.Stats.Pixels != 0 {
		t.Errorf("back-facing triangle drew %d pixels", r.Stats.Pixels)
	}
	if r.Stats.BackfaceCulled != 1 {
		t.Errorf("BackfaceCulled = %d, want 1", r.Stats.BackfaceCulled)
	}
	if got := countPixels(r.Framebuffer(), 0); got != 64*64 {
		t.Errorf("background pixels = %d, want %d", got, 64*64)
	}
}

func TestNearPlaneReject(t *testing.T) {
	tests := []struct {
		name string
		tip  math3d.Vec3
	}{
		{"behind eye", math3d.V3(0, 1, 1)},
		{"inside near plane", math3d.V3(0, 0.01, -0.05)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRasterizer(t, 64, 64)
			tri := polygonModel(math3d.V3(-1, -1, -5), math3d.V3(1, -1, -5), tc.tip)

			r.Draw(tri, red, FlatColorShader{})

			if r.Stats.BackfaceCulled != 0 {
				t.Fatalf("triangle was backface culled, test geometry is wrong")
			}
			if r.Stats.Pixels != 0 {
				t.Errorf("drew %d pixels, want 0", r.Stats.Pixels)
			}
			if r.Stats.NearRejected != 1 {
				t.Errorf("NearRejected = %d, want 1", r.Stats.NearRejected)
			}
		})
	}
}

func TestDepthOrderIndependent(t *testing.T) {
	near := polygonModel(math3d.V3(-2, -2, -3), math3d.V3(2, -2, -3), math3d.V3(0, 2, -3))
	far := polygonModel(math3d.V3(-4, -4, -6), math3d.V3(4, -4, -6), math3d.V3(0, 4, -6))

	tests := []struct {
		name  string
		first *Model
		tint1 math3d.Vec4
		next  *Model
		tint2 math3d.Vec4
	}{
		{"near then far", near, red, far, blue},
		{"far then near", far, blue, near, red},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRasterizer(t, 64, 64)
			r.Draw(tc.first, tc.tint1, FlatColorShader{})
			r.Draw(tc.next, tc.tint2, FlatColorShader{})

			if got := r.Framebuffer().Pixel(32, 32); got != PackColor(red) {
				t.Errorf("center pixel = %#08x, want near red %#08x", got, PackColor(red))
			}
			if d := r.DepthAt(32, 32); math.Abs(d-3) > 1e-6 {
				t.Errorf("center depth = %v, want 3", d)
			}
		})
	}
}

func TestFanTriangulation(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	// Pentagon facing the camera
	var pts []math3d.Vec3
	for i := range 5 {
		a := float64(i) * 2 * math.Pi / 5
		pts = append(pts, math3d.V3(math.Cos(a), math.Sin(a), -4))
	}

	r.Draw(polygonModel(pts...), red, nil)

	if r.Stats.Triangles != 3 {
		t.Errorf("Triangles = %d, want 3", r.Stats.Triangles)
	}
	if r.Framebuffer().Pixel(32, 32) != PackColor(red) {
		t.Error("center of pentagon not drawn")
	}
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	r := newTestRasterizer(t, 32, 32)
	// Collinear corners: zero world area, so it never reaches scan conversion
	tri := polygonModel(math3d.V3(-1, 0, -5), math3d.V3(0, 0, -5), math3d.V3(1, 0, -5))

	r.Draw(tri, red, FlatColorShader{})

	if r.Stats.Pixels != 0 {
		t.Errorf("degenerate triangle drew %d pixels", r.Stats.Pixels)
	}
}

func TestOffscreenTriangleClamped(t *testing.T) {
	r := newTestRasterizer(t, 32, 32)
	// Much larger than the view
	tri := polygonModel(math3d.V3(-100, -100, -2), math3d.V3(100, -100, -2), math3d.V3(0, 100, -2))

	r.Draw(tri, red, FlatColorShader{})

	if got := countPixels(r.Framebuffer(), PackColor(red)); got != 32*32 {
		t.Errorf("covered pixels = %d, want full screen %d", got, 32*32)
	}
}

func TestZeroNearTriangleOffscreen(t *testing.T) {
	proj, err := NewProjection(math.Pi/2, 1, 0, 100)
	if err != nil {
		t.Fatalf("NewProjection: %v", err)
	}
	r := NewRasterizer(NewCamera(math3d.Zero3(), 1), proj, NewFramebuffer(64, 64))
	r.Clear(0)
	// Clip w is about 1e-18, so screen x lands near 1e19
	const z = -1e-18
	tri := polygonModel(math3d.V3(1, 0, z), math3d.V3(2, 0, z), math3d.V3(1.5, 1, z))

	r.Draw(tri, red, FlatColorShader{})

	if r.Stats.Pixels != 0 {
		t.Errorf("Pixels = %d, want 0", r.Stats.Pixels)
	}
	if got := countPixels(r.Framebuffer(), PackColor(red)); got != 0 {
		t.Errorf("covered pixels = %d, want 0", got)
	}
}

func TestScanRange(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		wantLo   int
		wantHi   int
		wantDraw bool
	}{
		{"inside", 2.3, 5.6, 2, 6, true},
		{"clamped", -10, 100, 0, 31, true},
		{"left of buffer", -1e19, -3, 0, 0, false},
		{"right of buffer", 3.2e19, 6.4e19, 0, 0, false},
		{"spans int range", -1e300, 1e300, 0, 31, true},
		{"nan", math.NaN(), 4, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := scanRange(tt.lo, tt.hi, 32)
			if ok != tt.wantDraw {
				t.Fatalf("ok = %v, want %v", ok, tt.wantDraw)
			}
			if ok && (lo != tt.wantLo || hi != tt.wantHi) {
				t.Errorf("range = [%d, %d], want [%d, %d]", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestPerspectiveCorrectTexCoords(t *testing.T) {
	const size = 200
	r := newTestRasterizer(t, size, size)

	// Floor quad receding from z=-2 to z=-20 one unit below the eye
	mesh := models.NewMesh("floor")
	mesh.Positions = []math3d.Vec3{
		{X: -1, Y: -1, Z: -2},
		{X: 1, Y: -1, Z: -2},
		{X: 1, Y: -1, Z: -20},
		{X: -1, Y: -1, Z: -20},
	}
	mesh.Normals = []math3d.Vec3{{Y: 1}}
	mesh.TexCoords = []math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	face := models.Face{Material: -1}
	for i := range 4 {
		face.Vertices = append(face.Vertices, models.FaceVertex{Position: i, TexCoord: i, HasTexCoord: true})
	}
	mesh.Faces = []models.Face{face}
	mesh.CalculateBounds()

	// One column; green encodes the texel row
	tex := NewTexture(1, 256)
	tex.WrapV = WrapClamp
	for y := range 256 {
		tex.SetPixel(0, y, RGB(0, uint8(y), 0))
	}
	floor := NewModel(mesh)
	floor.Texture = tex

	r.Draw(floor, white, FlatColorShader{})

	// Screen row 90 from the bottom, just right of center
	const sx, sy = 100, 90
	ndcY := (float64(sy) + 0.5 - size/2) / (size / 2)
	dist := 1 / -ndcY
	wantV := (dist - 2) / 18

	got := r.Framebuffer().GetPixel(sx, size-1-sy)
	gotV := 1 - (float64(got.G)+0.5)/256

	if math.Abs(gotV-wantV) > 2.0/256 {
		naive := (ndcY + 0.5) / 0.45
		t.Errorf("v = %.4f, want %.4f (screen-space interpolation would give %.4f)", gotV, wantV, naive)
	}
	if d := r.DepthAt(sx, size-1-sy); math.Abs(d-dist) > 1e-6 {
		t.Errorf("depth = %v, want %v", d, dist)
	}
}

func TestNormalAndSpecularMaps(t *testing.T) {
	r := newTestRasterizer(t, 32, 32)
	quad := polygonModel(
		math3d.V3(-1, -1, -3), math3d.V3(1, -1, -3),
		math3d.V3(1, 1, -3), math3d.V3(-1, 1, -3),
	)

	// Normal map pointing straight down: (0,-1,0) encodes as (128,0,128)
	nmap := NewTexture(1, 1)
	nmap.SetPixel(0, 0, RGB(128, 0, 128))
	quad.NormalMap = nmap
	smap := NewTexture(1, 1)
	smap.SetPixel(0, 0, RGB(51, 0, 0))
	quad.SpecularMap = smap

	var seen PixelData
	r.Draw(quad, white, shaderFunc(func(_ math3d.Vec3, p PixelData) math3d.Vec4 {
		seen = p
		return p.Color
	}))

	if seen.Normal.Y > -0.99 {
		t.Errorf("normal = %v, want the mapped (0,-1,0)", seen.Normal)
	}
	if !seen.HasSpecular || math.Abs(seen.Specular-0.2) > 1e-9 {
		t.Errorf("specular = %v (present %v), want 0.2", seen.Specular, seen.HasSpecular)
	}
	if seen.Color.Sub(white).Len() > 1e-9 {
		t.Errorf("color = %v, want tint without a texture", seen.Color)
	}
}

type shaderFunc func(math3d.Vec3, PixelData) math3d.Vec4

func (f shaderFunc) Shade(eye math3d.Vec3, p PixelData) math3d.Vec4 { return f(eye, p) }

func TestCullModels(t *testing.T) {
	r := newTestRasterizer(t, 32, 32)
	r.CullModels = true

	behind := NewModel(models.NewCube(1))
	behind.SetPosition(math3d.V3(0, 0, 10))
	r.Draw(behind, red, nil)

	if r.Stats.ModelsCulled != 1 || r.Stats.Triangles != 0 {
		t.Errorf("stats = %+v, want model culled before triangle work", r.Stats)
	}

	// Past the far plane is left to the per-triangle path
	distant := NewModel(models.NewCube(1))
	distant.SetPosition(math3d.V3(0, 0, -500))
	r.Draw(distant, red, nil)
	if r.Stats.ModelsCulled != 1 || r.Stats.ModelsTested != 2 {
		t.Errorf("stats = %+v, want the distant model tested but not culled", r.Stats)
	}
}

func TestClearResetsFrame(t *testing.T) {
	r := newTestRasterizer(t, 16, 16)
	r.Draw(polygonModel(math3d.V3(-1, -1, -2), math3d.V3(1, -1, -2), math3d.V3(0, 1, -2)), red, nil)

	r.Clear(0xFF102030)

	if r.Stats != (FrameStats{}) {
		t.Errorf("stats after Clear = %+v", r.Stats)
	}
	if r.DepthAt(8, 8) != math.MaxFloat64 {
		t.Error("Clear should reset depth to MaxFloat64")
	}
	if r.Framebuffer().Pixel(8, 8) != 0xFF102030 {
		t.Error("Clear should fill the background")
	}
}

func TestClearFollowsFramebufferSize(t *testing.T) {
	r := newTestRasterizer(t, 8, 8)
	r.SetFramebuffer(NewFramebuffer(20, 10))
	r.Clear(0)

	if r.DepthAt(19, 9) != math.MaxFloat64 {
		t.Error("depth buffer was not resized with the framebuffer")
	}
}

func TestDepthAtBounds(t *testing.T) {
	r := newTestRasterizer(t, 10, 10)
	if r.DepthAt(-1, 0) != math.MaxFloat64 || r.DepthAt(100, 0) != math.MaxFloat64 {
		t.Error("out of bounds DepthAt should return MaxFloat64")
	}
}

func TestMin3Max3(t *testing.T) {
	if min3(1, 2, 3) != 1 || min3(3, 1, 2) != 1 || min3(2, 3, 1) != 1 {
		t.Error("min3 failed")
	}
	if max3(1, 2, 3) != 3 || max3(3, 1, 2) != 3 || max3(2, 3, 1) != 3 {
		t.Error("max3 failed")
	}
}

func renderCube(t testing.TB) *Rasterizer {
	r := newTestRasterizer(t, 64, 64)
	cube := NewModel(models.NewCube(1))
	cube.SetRotation(math3d.Rotation(math3d.V3(math3d.Radians(20), math3d.Radians(30), 0)))
	cube.SetPosition(math3d.V3(0, 0, -3))

	shader := &PhongShader{
		Ambient: 0.2,
		Lights: []Light{{
			Color:             math3d.V4(1, 0.9, 0.8, 1),
			Position:          math3d.V3(2, 3, 2),
			DiffuseIntensity:  0.8,
			SpecularIntensity: 0.5,
		}},
	}

	r.Clear(0xFF1E1E28)
	r.Draw(cube, math3d.V4(0.8, 0.3, 0.2, 1), shader)
	return r
}

func TestCubeGolden(t *testing.T) {
	r := renderCube(t)

	if r.Stats.Triangles != 12 {
		t.Errorf("Triangles = %d, want 12", r.Stats.Triangles)
	}
	if r.Stats.BackfaceCulled < 6 {
		t.Errorf("BackfaceCulled = %d, want at least 6", r.Stats.BackfaceCulled)
	}

	again := renderCube(t)
	for i, p := range r.Framebuffer().Pixels {
		if again.Framebuffer().Pixels[i] != p {
			t.Fatalf("pixel %d differs between identical renders", i)
		}
	}

	golden := filepath.Join("testdata", "cube.png")
	if *update {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatal(err)
		}
		if err := r.Framebuffer().SavePNG(golden); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		t.Logf("wrote %s", golden)
		return
	}

	f, err := os.Open(golden)
	if os.IsNotExist(err) {
		t.Fatalf("golden %s missing (run with -update to create it)", golden)
	}
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	want, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode golden: %v", err)
	}

	got := r.Framebuffer().ToImage()
	if want.Bounds() != got.Bounds() {
		t.Fatalf("golden size %v, rendered %v", want.Bounds(), got.Bounds())
	}

	// Trig and pow may differ in the last bit between platforms, and some
	// architectures fuse multiply-adds, so allow a little channel drift
	// and a handful of flipped edge pixels.
	const (
		channelTolerance = 2
		maxEdgePixels    = 4
	)
	mismatched := 0
	for y := range got.Bounds().Dy() {
		for x := range got.Bounds().Dx() {
			wc := color.RGBAModel.Convert(want.At(x, y)).(color.RGBA)
			gc := got.RGBAAt(x, y)
			if channelDiff(wc, gc) <= channelTolerance {
				continue
			}
			mismatched++
			if mismatched > maxEdgePixels {
				t.Fatalf("pixel (%d,%d) = %v, golden %v (run with -update to accept)", x, y, gc, wc)
			}
		}
	}
}

func channelDiff(a, b color.RGBA) int {
	d := 0
	for _, p := range [][2]uint8{{a.R, b.R}, {a.G, b.G}, {a.B, b.B}, {a.A, b.A}} {
		d = max(d, abs(int(p[0])-int(p[1])))
	}
	return d
}

func BenchmarkDrawCube(b *testing.B) {
	r := newTestRasterizer(b, 160, 90)
	cube := NewModel(models.NewCube(1))
	cube.SetPosition(math3d.V3(0, 0, -3))
	shader := &PhongShader{Ambient: 0.2, Lights: []Light{{
		Color: white, Position: math3d.V3(0, 5, 0), DiffuseIntensity: 1, SpecularIntensity: 0.5,
	}}}

	for b.Loop() {
		r.Clear(0)
		r.Draw(cube, red, shader)
	}
}
