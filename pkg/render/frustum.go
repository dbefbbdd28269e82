package render

import (
	"github.com/taigrr/prism/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

func planeFromColumn(c math3d.Vec4) Plane {
	p := Plane{Normal: c.Vec3(), D: c.W}
	p.Normalize()
	return p
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane

	// IgnoreFar skips the far plane in every test, leaving geometry past
	// the far plane to the depth buffer.
	IgnoreFar bool
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// (Gribb/Hartmann). Under the row-vector convention clip = v·M, so each clip
// component is a column of M. Depth runs 0 (near) to w (far).
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	c0, c1, c2, c3 := m.Column(0), m.Column(1), m.Column(2), m.Column(3)

	f.Planes[FrustumLeft] = planeFromColumn(c3.Add(c0))
	f.Planes[FrustumRight] = planeFromColumn(c3.Sub(c0))
	f.Planes[FrustumBottom] = planeFromColumn(c3.Add(c1))
	f.Planes[FrustumTop] = planeFromColumn(c3.Sub(c1))
	f.Planes[FrustumNear] = planeFromColumn(c2)
	f.Planes[FrustumFar] = planeFromColumn(c3.Sub(c2))

	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns an AABB that bounds all 8 corners of b after
// transformation by m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	first := m.MulVec3(corners[0])
	lo, hi := first, first
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}

	return AABB{Min: lo, Max: hi}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (f Frustum) planeCount() int {
	if f.IgnoreFar {
		return FrustumFar
	}
	return len(f.Planes)
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// It tests the corner furthest along each plane normal, so it can return
// true for boxes just outside a frustum corner but never false for a
// visible box.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.planeCount() {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.planeCount() {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
