package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/prism/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads OBJ geometry: v, vt, vn and f records. Face corners may be
// written as v, v/vt, v//vn or v/vt/vn, with 1-based or negative (relative)
// indices. Corners without a normal share a generated flat face normal,
// stored after the file's own normals. Other record types are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	var generated []math3d.Vec3
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			mesh.Positions = append(mesh.Positions, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			mesh.TexCoords = append(mesh.TexCoords, math3d.V2(v[0], v[1]))

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			mesh.Normals = append(mesh.Normals, math3d.V3(v[0], v[1], v[2]))

		case "f":
			face, err := parseFace(mesh, &generated, fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	// Generated normals go after the file's normals so that relative vn
	// indices resolved during parsing stay valid.
	base := len(mesh.Normals)
	for i := range mesh.Faces {
		for j, fv := range mesh.Faces[i].Vertices {
			if fv.Normal < 0 {
				mesh.Faces[i].Vertices[j].Normal = base - fv.Normal - 1
			}
		}
	}
	mesh.Normals = append(mesh.Normals, generated...)

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// parseFloats parses at least n floats; extra components (such as a w
// coordinate) are ignored.
func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFace reads one face. Corners without a normal get the index -(k+1)
// of their flat normal in generated; ParseOBJ rebases them once the file's
// normal count is known.
func parseFace(mesh *Mesh, generated *[]math3d.Vec3, corners []string) (Face, error) {
	if len(corners) < 3 {
		return Face{}, fmt.Errorf("need at least 3 vertices, got %d", len(corners))
	}

	face := Face{
		Vertices: make([]FaceVertex, len(corners)),
		Material: -1,
	}
	var missing []int

	for i, corner := range corners {
		parts := strings.Split(corner, "/")
		if len(parts) > 3 {
			return Face{}, fmt.Errorf("malformed vertex %q", corner)
		}

		pos, err := resolveIndex(parts[0], len(mesh.Positions))
		if err != nil {
			return Face{}, fmt.Errorf("position in %q: %w", corner, err)
		}
		fv := FaceVertex{Position: pos}

		if len(parts) > 1 && parts[1] != "" {
			tc, err := resolveIndex(parts[1], len(mesh.TexCoords))
			if err != nil {
				return Face{}, fmt.Errorf("texcoord in %q: %w", corner, err)
			}
			fv.TexCoord = tc
			fv.HasTexCoord = true
		}

		if len(parts) > 2 && parts[2] != "" {
			n, err := resolveIndex(parts[2], len(mesh.Normals))
			if err != nil {
				return Face{}, fmt.Errorf("normal in %q: %w", corner, err)
			}
			fv.Normal = n
		} else {
			missing = append(missing, i)
		}

		face.Vertices[i] = fv
	}

	if len(missing) > 0 {
		v0 := mesh.Positions[face.Vertices[0].Position]
		v1 := mesh.Positions[face.Vertices[1].Position]
		v2 := mesh.Positions[face.Vertices[2].Position]
		*generated = append(*generated, v1.Sub(v0).Cross(v2.Sub(v0)).Normalize())
		flat := -len(*generated)
		for _, i := range missing {
			face.Vertices[i].Normal = flat
		}
	}

	return face, nil
}

// resolveIndex converts a 1-based or negative-relative OBJ index into a
// 0-based index into a list that currently holds count elements.
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, count)
	}
	return idx, nil
}
