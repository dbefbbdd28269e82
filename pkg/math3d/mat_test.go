package math3d

import (
	"math"
	"testing"
)

func TestMat4MulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.7))
	if got := m.Mul(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
}

func TestMat4MulRowMajor(t *testing.T) {
	a := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	b := Mat4{
		1, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 3, 0,
		1, 1, 1, 1,
	}
	want := Mat4{
		5, 8, 13, 4,
		13, 20, 29, 8,
		21, 32, 45, 12,
		29, 44, 61, 16,
	}
	if got := a.Mul(b); got != want {
		t.Errorf("a * b =\n%v\nwant\n%v", got, want)
	}
}

func TestTranslateComposes(t *testing.T) {
	got := Translate(V3(1, 2, 3)).Mul(Translate(V3(4, 5, 6)))
	want := Translate(V3(5, 7, 9))
	if got != want {
		t.Errorf("T(a)*T(b) = %v, want %v", got, want)
	}
}

func TestRotateY(t *testing.T) {
	// +X rotated 90° counter-clockwise around +Y lands on -Z.
	got := RotateY(math.Pi / 2).MulVec3(V3(1, 0, 0))
	if !vec3Approx(got, V3(0, 0, -1)) {
		t.Errorf("RotateY(90°)·X = %v, want (0,0,-1)", got)
	}
}

func TestRotateXZ(t *testing.T) {
	if got := RotateX(math.Pi / 2).MulVec3(V3(0, 1, 0)); !vec3Approx(got, V3(0, 0, 1)) {
		t.Errorf("RotateX(90°)·Y = %v, want (0,0,1)", got)
	}
	if got := RotateZ(math.Pi / 2).MulVec3(V3(1, 0, 0)); !vec3Approx(got, V3(0, 1, 0)) {
		t.Errorf("RotateZ(90°)·X = %v, want (0,1,0)", got)
	}
}

func TestRotateAxisMatchesRotateY(t *testing.T) {
	a := Rotate(V3(0, 1, 0), 0.6)
	b := RotateY(0.6)
	for i := range a {
		if !approx(a[i], b[i]) {
			t.Fatalf("Rotate(Y, θ) differs from RotateY(θ) at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

// Scale, then rotate, then translate: the object-to-world order.
func TestModelCompositionOrder(t *testing.T) {
	s := Scale(V3(2, 2, 2))
	r := RotateY(math.Pi / 2)
	tr := Translate(V3(10, 0, 0))

	p := V3(1, 0, 0)
	got := s.Mul(r).Mul(tr).MulVec3(p)
	want := V3(10, 0, -2)
	if !vec3Approx(got, want) {
		t.Errorf("S*R*T · p = %v, want %v", got, want)
	}

	// The reversed order is a different transform.
	rev := tr.Mul(r).Mul(s).MulVec3(p)
	if vec3Approx(rev, want) {
		t.Errorf("T*R*S · p = %v, should differ from S*R*T", rev)
	}
}

func TestMulVec4MatchesMulVec3(t *testing.T) {
	m := Scale(V3(1, 2, 3)).Mul(Rotation(V3(0.1, 0.2, 0.3))).Mul(Translate(V3(4, 5, 6)))
	p := V3(0.5, -1, 2)
	a := m.MulVec3(p)
	b := m.MulVec4(V4FromV3(p, 1)).Vec3()
	if !vec3Approx(a, b) {
		t.Errorf("MulVec3 = %v, MulVec4 = %v", a, b)
	}

	dir := m.MulVec3Dir(p)
	want := m.Mat3().MulVec3(p)
	if !vec3Approx(dir, want) {
		t.Errorf("MulVec3Dir = %v, Mat3().MulVec3 = %v", dir, want)
	}
}

func TestLookAt(t *testing.T) {
	eye := V3(0, 0, 5)
	view := LookAt(eye, V3(0, 0, 0), Up())

	// The eye maps to the origin.
	if got := view.MulVec3(eye); !vec3Approx(got, Zero3()) {
		t.Errorf("view·eye = %v, want origin", got)
	}
	// The target lies on -Z in view space.
	if got := view.MulVec3(V3(0, 0, 0)); !vec3Approx(got, V3(0, 0, -5)) {
		t.Errorf("view·target = %v, want (0,0,-5)", got)
	}
	// World right stays right.
	if got := view.MulVec3(V3(1, 0, 5)); !vec3Approx(got, V3(1, 0, 0)) {
		t.Errorf("view·right = %v, want (1,0,0)", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := 0.5, 50.0
	p := Perspective(math.Pi/2, 1, near, far)

	tests := []struct {
		name  string
		z     float64
		wantZ float64
	}{
		{"near plane", -near, 0},
		{"far plane", -far, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := p.MulVec4(V4(0, 0, tt.z, 1))
			if !approx(clip.W, -tt.z) {
				t.Errorf("clip w = %f, want %f", clip.W, -tt.z)
			}
			if got := clip.Z / clip.W; !approx(got, tt.wantZ) {
				t.Errorf("ndc z = %f, want %f", got, tt.wantZ)
			}
		})
	}

	// Between the eye and the near plane depth goes negative.
	clip := p.MulVec4(V4(0, 0, -near/2, 1))
	if clip.Z >= 0 {
		t.Errorf("clip z in front of near plane = %f, want negative", clip.Z)
	}
	// Behind the eye too.
	clip = p.MulVec4(V4(0, 0, 1, 1))
	if clip.Z >= 0 {
		t.Errorf("clip z behind eye = %f, want negative", clip.Z)
	}
}

func TestPerspectiveFOV(t *testing.T) {
	// 90° vertical fov: a point at 45° above the axis lands on the top edge.
	p := Perspective(math.Pi/2, 2, 0.1, 100)
	clip := p.MulVec4(V4(0, 3, -3, 1))
	if got := clip.Y / clip.W; !approx(got, 1) {
		t.Errorf("ndc y = %f, want 1", got)
	}
	// Aspect 2 halves horizontal extent.
	clip = p.MulVec4(V4(3, 0, -3, 1))
	if got := clip.X / clip.W; !approx(got, 0.5) {
		t.Errorf("ndc x = %f, want 0.5", got)
	}
}

func TestMat3FromBasis(t *testing.T) {
	m := Mat3FromBasis(V3(0, 0, -1), V3(0, 1, 0), V3(1, 0, 0))
	got := m.MulVec3(V3(1, 2, 3))
	want := V3(3, 2, -1)
	if !vec3Approx(got, want) {
		t.Errorf("basis · v = %v, want %v", got, want)
	}
	if row := m.Row(0); row != V3(0, 0, -1) {
		t.Errorf("Row(0) = %v", row)
	}
	if got := m.Mul(m.Transpose()); got != Identity3() {
		t.Errorf("orthonormal M*Mᵀ = %v, want identity", got)
	}
}

func TestRadians(t *testing.T) {
	if !approx(Radians(180), math.Pi) {
		t.Errorf("Radians(180) = %f", Radians(180))
	}
	if !approx(Degrees(math.Pi/2), 90) {
		t.Errorf("Degrees(π/2) = %f", Degrees(math.Pi/2))
	}
}
