package raster

import "softrender/internal/mathutil"

// Vertex holds per-vertex data. After the vertex shader Position is in clip
// space; after ToViewport it holds pixel x, y, NDC z and 1/w in W.
type Vertex struct {
	Position mathutil.Vec4
	Normal   mathutil.Vec4
	TexCoord mathutil.Vec2
	Color    mathutil.Vec4
}

// Face is one triangle.
type Face struct {
	V0, V1, V2 Vertex
}

// Lerp blends two viewport-space vertices. Position, normal and color are
// interpolated linearly. TexCoord is perspective-correct: TexCoord·(1/w) and
// 1/w (Position.W) are interpolated and divided back out.
func Lerp(a, b Vertex, t float64) Vertex {
	pos := a.Position.Lerp(b.Position, t)

	var uv mathutil.Vec2
	if invW := pos[3]; invW != 0 {
		uv = a.TexCoord.Scale(a.Position[3]).Lerp(b.TexCoord.Scale(b.Position[3]), t).Scale(1 / invW)
	} else {
		uv = a.TexCoord.Lerp(b.TexCoord, t)
	}

	return Vertex{
		Position: pos,
		Normal:   a.Normal.Lerp(b.Normal, t),
		TexCoord: uv,
		Color:    a.Color.Lerp(b.Color, t),
	}
}
