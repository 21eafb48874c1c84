// Package mesh holds indexed triangle geometry and expands it into raster
// faces.
package mesh

import (
	"softrender/internal/mathutil"
	"softrender/internal/raster"
)

// Triangle holds index triples into the position, normal and texcoord
// arrays. -1 marks a missing normal or texcoord.
type Triangle struct {
	VI [3]int
	NI [3]int
	TI [3]int
}

// Mesh is indexed geometry. Positions have w = 1, normals w = 0.
type Mesh struct {
	Positions []mathutil.Vec4
	Normals   []mathutil.Vec4
	UVs       []mathutil.Vec2
	Tris      []Triangle
}

// Faces expands every triangle into a raster face with the given vertex
// color. Missing normals are zero, missing texcoords (0, 0).
func (m *Mesh) Faces(color mathutil.Vec4) []raster.Face {
	faces := make([]raster.Face, 0, len(m.Tris))
	for _, tri := range m.Tris {
		var v [3]raster.Vertex
		for k := 0; k < 3; k++ {
			v[k] = raster.Vertex{Position: m.Positions[tri.VI[k]], Color: color}
			if n := tri.NI[k]; n >= 0 {
				v[k].Normal = m.Normals[n]
			}
			if t := tri.TI[k]; t >= 0 {
				v[k].TexCoord = m.UVs[t]
			}
		}
		faces = append(faces, raster.Face{V0: v[0], V1: v[1], V2: v[2]})
	}
	return faces
}

// Quad returns a unit square in the z = 0 plane, facing +z, with UVs
// spanning [0,1]².
func Quad() *Mesh {
	n := mathutil.Vec4{0, 0, 1, 0}
	return &Mesh{
		Positions: []mathutil.Vec4{{-1, -1, 0, 1}, {1, -1, 0, 1}, {1, 1, 0, 1}, {-1, 1, 0, 1}},
		Normals:   []mathutil.Vec4{n},
		UVs:       []mathutil.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Tris: []Triangle{
			{VI: [3]int{0, 1, 2}, NI: [3]int{0, 0, 0}, TI: [3]int{0, 1, 2}},
			{VI: [3]int{0, 2, 3}, NI: [3]int{0, 0, 0}, TI: [3]int{0, 2, 3}},
		},
	}
}

// SingleTriangle returns a single triangle spanning most of the NDC square.
func SingleTriangle() *Mesh {
	return &Mesh{
		Positions: []mathutil.Vec4{{0, 0.8, 0, 1}, {0.8, -0.8, 0, 1}, {-0.8, -0.8, 0, 1}},
		Normals:   []mathutil.Vec4{{0, 0, 1, 0}},
		UVs:       []mathutil.Vec2{{0.5, 1}, {1, 0}, {0, 0}},
		Tris:      []Triangle{{VI: [3]int{0, 1, 2}, NI: [3]int{0, 0, 0}, TI: [3]int{0, 1, 2}}},
	}
}
