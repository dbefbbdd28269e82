package render

import (
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// Model places a mesh in the world. The model matrix is recomputed by every
// setter as scale·rotation·translation, so Matrix never returns a stale value.
type Model struct {
	mesh *models.Mesh

	translation math3d.Mat4
	rotation    math3d.Mat4
	scale       math3d.Mat4
	matrix      math3d.Mat4

	// Optional image maps; nil means absent.
	Texture     *Texture
	NormalMap   *Texture
	SpecularMap *Texture
}

// NewModel wraps mesh with identity transforms.
func NewModel(mesh *models.Mesh) *Model {
	m := &Model{
		mesh:        mesh,
		translation: math3d.Identity(),
		rotation:    math3d.Identity(),
		scale:       math3d.Identity(),
	}
	m.update()
	return m
}

// Mesh returns the model's mesh.
func (m *Model) Mesh() *models.Mesh { return m.mesh }

// Matrix returns the object-to-world transform.
func (m *Model) Matrix() math3d.Mat4 { return m.matrix }

// Translation returns the translation component.
func (m *Model) Translation() math3d.Mat4 { return m.translation }

// Rotation returns the rotation component.
func (m *Model) Rotation() math3d.Mat4 { return m.rotation }

// Scale returns the scale component.
func (m *Model) Scale() math3d.Mat4 { return m.scale }

// SetTranslation replaces the translation component.
func (m *Model) SetTranslation(t math3d.Mat4) {
	m.translation = t
	m.update()
}

// SetRotation replaces the rotation component.
func (m *Model) SetRotation(r math3d.Mat4) {
	m.rotation = r
	m.update()
}

// SetScale replaces the scale component.
func (m *Model) SetScale(s math3d.Mat4) {
	m.scale = s
	m.update()
}

// SetPosition is shorthand for SetTranslation(math3d.Translate(p)).
func (m *Model) SetPosition(p math3d.Vec3) {
	m.SetTranslation(math3d.Translate(p))
}

// SetMaps binds a set of image maps.
func (m *Model) SetMaps(maps Maps) {
	m.Texture = maps.Texture
	m.NormalMap = maps.NormalMap
	m.SpecularMap = maps.SpecularMap
}

// Bounds returns the world-space bounding box of the mesh.
func (m *Model) Bounds() AABB {
	return NewAABB(m.mesh.BoundsMin, m.mesh.BoundsMax).Transform(m.matrix)
}

func (m *Model) update() {
	m.matrix = m.scale.Mul(m.rotation).Mul(m.translation)
}
