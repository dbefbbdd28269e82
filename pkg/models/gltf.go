package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/prism/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
	LoadTextures     bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		LoadTextures:     true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load dispatches on the file extension: .obj, .glb or .gltf.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj, .glb or .gltf)", ext)
	}
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = l.readMaterials(doc, filepath.Dir(path))

	// Process all meshes in the document
	missingNormals := false
	for _, m := range doc.Meshes {
		missing, err := l.processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		missingNormals = missingNormals || missing
	}

	if l.CalculateNormals && missingNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateFlatNormals()
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh. glTF shares one index
// across all attributes, so each face corner uses the same value for
// position, normal and texture coordinate. It reports whether any
// primitive came without normals.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	missingNormals := false

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		// Get position accessor
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		// Get normals if available
		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			missingNormals = true
		}

		// Get UVs if available
		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return false, fmt.Errorf("read uvs: %w", err)
			}
		}
		hasUV := len(uvs) >= len(positions)

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		// Attribute lists stay parallel so the shared index is valid for all
		// three. Missing normals stay zero until normals are generated.
		base := len(mesh.Positions)
		for i := range positions {
			mesh.Positions = append(mesh.Positions, positions[i])
			var n math3d.Vec3
			if i < len(normals) {
				n = normals[i]
			}
			mesh.Normals = append(mesh.Normals, n)
			var uv math3d.Vec2
			if hasUV {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				uv = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			mesh.TexCoords = append(mesh.TexCoords, uv)
		}

		corner := func(i int) FaceVertex {
			return FaceVertex{
				Position:    base + i,
				Normal:      base + i,
				TexCoord:    base + i,
				HasTexCoord: hasUV,
			}
		}

		// Process indices. GLTF front faces are counter-clockwise, as are ours.
		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				Vertices: []FaceVertex{
					corner(indices[i]),
					corner(indices[i+1]),
					corner(indices[i+2]),
				},
				Material: material,
			})
		}
	}

	return missingNormals, nil
}

// readMaterials converts glTF PBR materials, decoding base color textures
// when the loader is asked to.
func (l *GLTFLoader) readMaterials(doc *gltf.Document, dir string) []Material {
	materials := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mat := Material{
			Name:      m.Name,
			BaseColor: [4]float64{1, 1, 1, 1},
			Metallic:  1,
			Roughness: 1,
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				mat.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = *pbr.RoughnessFactor
			}
			if l.LoadTextures && pbr.BaseColorTexture != nil {
				if img := decodeTextureImage(doc, pbr.BaseColorTexture.Index, dir); img != nil {
					mat.BaseMap = img
					mat.HasTexture = true
				}
			}
		}
		materials[i] = mat
	}
	return materials
}

// decodeTextureImage resolves a glTF texture to its decoded image, or nil.
func decodeTextureImage(doc *gltf.Document, texIdx int, dir string) image.Image {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil
	}
	src := doc.Textures[texIdx].Source
	if src == nil || *src >= len(doc.Images) {
		return nil
	}
	data := imageData(doc, doc.Images[*src], dir)
	if len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// imageData returns the encoded bytes of an image, embedded or external.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data != nil {
			start := bv.ByteOffset
			end := start + bv.ByteLength
			return buf.Data[start:end]
		}
		return nil
	}
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		// External texture file
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err == nil {
			return data
		}
	}
	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// gltf.Open resolves embedded (GLB) and external buffers into Data
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	// Calculate data bounds
	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	// Read based on component type and accessor type
	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if start+(count-1)*stride+12 > len(bufData) && count > 0 {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		if start+(count-1)*stride+8 > len(bufData) && count > 0 {
			return nil, fmt.Errorf("accessor overruns buffer")
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		size := 0
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		}
		if stride == 0 {
			stride = size
		}
		if size > 0 && count > 0 && start+(count-1)*stride+size > len(bufData) {
			return nil, fmt.Errorf("accessor overruns buffer")
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
