package math3d

// Mat3 is a 3x3 row-major matrix. Like Mat4 it multiplies row vectors
// from the left: v' = v·M.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromBasis builds a matrix whose rows are the basis vectors x, y, z.
// Multiplying (a, b, c) by it yields a*x + b*y + c*z.
func Mat3FromBasis(x, y, z Vec3) Mat3 {
	return Mat3{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
	}
}

// Mul multiplies two matrices. The result applies a first, then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for row := range 3 {
		for col := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row*3+k] * b[k*3+col]
			}
			m[row*3+col] = sum
		}
	}
	return m
}

// MulVec3 transforms v by the matrix.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[3] + v.Z*m[6],
		v.X*m[1] + v.Y*m[4] + v.Z*m[7],
		v.X*m[2] + v.Y*m[5] + v.Z*m[8],
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}
