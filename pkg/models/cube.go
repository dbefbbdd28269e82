package models

import "github.com/taigrr/prism/pkg/math3d"

// NewCube builds an axis-aligned cube of the given edge length centred on
// the origin: 8 positions, 6 face normals and 6 quad faces wound
// counter-clockwise from outside, each mapped onto the full [0,1] texture.
func NewCube(size float64) *Mesh {
	h := size / 2
	mesh := NewMesh("cube")

	mesh.Positions = []math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0: left-bottom-back
		{X: h, Y: -h, Z: -h},  // 1: right-bottom-back
		{X: h, Y: h, Z: -h},   // 2: right-top-back
		{X: -h, Y: h, Z: -h},  // 3: left-top-back
		{X: -h, Y: -h, Z: h},  // 4: left-bottom-front
		{X: h, Y: -h, Z: h},   // 5: right-bottom-front
		{X: h, Y: h, Z: h},    // 6: right-top-front
		{X: -h, Y: h, Z: h},   // 7: left-top-front
	}
	mesh.Normals = []math3d.Vec3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}
	mesh.TexCoords = []math3d.Vec2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}

	quads := []struct {
		corners [4]int
		normal  int
	}{
		{[4]int{5, 1, 2, 6}, 0}, // Right
		{[4]int{0, 4, 7, 3}, 1}, // Left
		{[4]int{7, 6, 2, 3}, 2}, // Top
		{[4]int{0, 1, 5, 4}, 3}, // Bottom
		{[4]int{4, 5, 6, 7}, 4}, // Front
		{[4]int{1, 0, 3, 2}, 5}, // Back
	}

	for _, q := range quads {
		face := Face{Material: -1, Vertices: make([]FaceVertex, 4)}
		for i, p := range q.corners {
			face.Vertices[i] = FaceVertex{
				Position:    p,
				TexCoord:    i,
				Normal:      q.normal,
				HasTexCoord: true,
			}
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	mesh.CalculateBounds()
	return mesh
}
