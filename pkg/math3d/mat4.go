package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order.
// Vectors are rows multiplied from the left (v' = v·M), so the translation
// lives in the bottom row and transforms compose left to right:
// scale.Mul(rotation).Mul(translation) scales first and translates last.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For a transform matrix:
// | Xx Xy Xz 0 |   X,Y,Z = basis vectors (rotation/scale)
// | Yx Yy Yz 0 |   T = translation
// | Zx Zy Zz 0 |
// | Tx Ty Tz 1 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a counter-clockwise rotation around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a counter-clockwise rotation around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a counter-clockwise rotation around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Rotation builds a rotation from Euler angles in radians, applied
// around X, then Y, then Z.
func Rotation(euler Vec3) Mat4 {
	return RotateX(euler.X).Mul(RotateY(euler.Y)).Mul(RotateZ(euler.Z))
}

// LookAt creates a right-handed view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize() // Forward
	s := f.Cross(up).Normalize()     // Right
	u := s.Cross(f)                  // Up (recomputed)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective creates a right-handed perspective projection matrix.
// fovy is vertical field of view in radians, aspect is width/height.
//
// Depth maps near to 0 and far to 1 after the divide. Clip w equals the
// eye-space distance in front of the camera, and clip z is negative for
// points nearer than the near plane.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, near * far * nf, 0,
	}
}

// Mul multiplies two matrices: a * b. The result applies a first, then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the result's w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := v.X*m[3] + v.Y*m[7] + v.Z*m[11] + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12]) / w,
		(v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13]) / w,
		(v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14]) / w,
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10],
	}
}

// MulVec4 transforms a Vec4: v·M.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// Mat3 returns the upper-left 3x3 block (rotation and scale).
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Column returns column i as a Vec4. Frustum planes are sums and
// differences of projection columns under the row-vector convention.
func (m Mat4) Column(i int) Vec4 {
	return Vec4{m[i], m[4+i], m[8+i], m[12+i]}
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
