// Package models provides mesh data and loaders for Prism.
package models

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrInvalidMesh is returned when face data references missing attributes.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh holds separate attribute lists and polygon faces that index into them.
// A mesh is treated as immutable once a loader returns it.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Normals   []math3d.Vec3
	TexCoords []math3d.Vec2
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// FaceVertex is one corner of a face. Position and Normal always index
// their lists; TexCoord is only meaningful when HasTexCoord is set.
type FaceVertex struct {
	Position    int
	TexCoord    int
	Normal      int
	HasTexCoord bool
}

// Face is a convex polygon with three or more corners, wound
// counter-clockwise when seen from its front.
type Face struct {
	Vertices []FaceVertex
	Material int // Index into Mesh.Materials (-1 for no material)
}

// Material carries the base color and optional texture of a glTF material.
type Material struct {
	Name       string
	BaseColor  [4]float64  // RGBA in 0-1 range
	Metallic   float64     // 0 = dielectric, 1 = metal
	Roughness  float64     // 0 = smooth, 1 = rough
	BaseMap    image.Image // Optional base color texture
	HasTexture bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name: name,
	}
}

// Validate checks that every face has at least three corners and that
// every index is in range.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f.Vertices) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidMesh, i, len(f.Vertices))
		}
		for j, fv := range f.Vertices {
			if fv.Position < 0 || fv.Position >= len(m.Positions) {
				return fmt.Errorf("%w: face %d vertex %d: position index %d out of range [0,%d)",
					ErrInvalidMesh, i, j, fv.Position, len(m.Positions))
			}
			if fv.Normal < 0 || fv.Normal >= len(m.Normals) {
				return fmt.Errorf("%w: face %d vertex %d: normal index %d out of range [0,%d)",
					ErrInvalidMesh, i, j, fv.Normal, len(m.Normals))
			}
			if fv.HasTexCoord && (fv.TexCoord < 0 || fv.TexCoord >= len(m.TexCoords)) {
				return fmt.Errorf("%w: face %d vertex %d: texcoord index %d out of range [0,%d)",
					ErrInvalidMesh, i, j, fv.TexCoord, len(m.TexCoords))
			}
		}
		if f.Material >= len(m.Materials) {
			return fmt.Errorf("%w: face %d: material %d out of range", ErrInvalidMesh, i, f.Material)
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles after fan triangulation.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Vertices) - 2
	}
	return n
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FaceNormal returns the unit normal of the first triangle of face i.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	fv := m.Faces[i].Vertices
	v0 := m.Positions[fv[0].Position]
	v1 := m.Positions[fv[1].Position]
	v2 := m.Positions[fv[2].Position]
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// CalculateSmoothNormals replaces the normal list with one averaged normal
// per position and points every face corner at it.
func (m *Mesh) CalculateSmoothNormals() {
	normals := make([]math3d.Vec3, len(m.Positions))

	// Accumulate unnormalized face normals (area weighted) per position
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f.Vertices); i++ {
			a := f.Vertices[0].Position
			b := f.Vertices[i].Position
			c := f.Vertices[i+1].Position
			n := m.Positions[b].Sub(m.Positions[a]).Cross(m.Positions[c].Sub(m.Positions[a]))
			normals[a] = normals[a].Add(n)
			normals[b] = normals[b].Add(n)
			normals[c] = normals[c].Add(n)
		}
	}

	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals

	for fi := range m.Faces {
		for vi := range m.Faces[fi].Vertices {
			fv := &m.Faces[fi].Vertices[vi]
			fv.Normal = fv.Position
		}
	}
}

// CalculateFlatNormals gives every face its own normal.
func (m *Mesh) CalculateFlatNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Faces))
	for fi := range m.Faces {
		m.Normals[fi] = m.FaceNormal(fi)
		for vi := range m.Faces[fi].Vertices {
			m.Faces[fi].Vertices[vi].Normal = fi
		}
	}
}

// Transform returns a copy of the mesh with positions moved by mat and
// normals rotated by its upper 3x3.
func (m *Mesh) Transform(mat math3d.Mat4) *Mesh {
	out := m.Clone()
	for i, p := range out.Positions {
		out.Positions[i] = mat.MulVec3(p)
	}
	rot := mat.Mat3()
	for i, n := range out.Normals {
		out.Normals[i] = rot.MulVec3(n).Normalize()
	}
	out.CalculateBounds()
	return out
}

// Normalize returns a copy recentred on the origin and uniformly scaled so
// its largest dimension equals size.
func (m *Mesh) Normalize(size float64) *Mesh {
	dims := m.Size()
	maxDim := math.Max(dims.X, math.Max(dims.Y, dims.Z))
	if maxDim == 0 {
		return m.Clone()
	}
	s := size / maxDim
	return m.Transform(math3d.Translate(m.Center().Negate()).Mul(math3d.ScaleUniform(s)))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: append([]math3d.Vec3(nil), m.Positions...),
		Normals:   append([]math3d.Vec3(nil), m.Normals...),
		TexCoords: append([]math3d.Vec2(nil), m.TexCoords...),
		Faces:     make([]Face, len(m.Faces)),
		Materials: append([]Material(nil), m.Materials...),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	for i, f := range m.Faces {
		clone.Faces[i] = Face{
			Vertices: append([]FaceVertex(nil), f.Vertices...),
			Material: f.Material,
		}
	}
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// BaseMap returns the first material texture, or nil.
func (m *Mesh) BaseMap() image.Image {
	for _, mat := range m.Materials {
		if mat.HasTexture && mat.BaseMap != nil {
			return mat.BaseMap
		}
	}
	return nil
}
