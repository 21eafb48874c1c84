package raster

import (
	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// Sample returns the nearest texel for uv as normalized RGBA. UVs are clamped
// to [0,1] and V is flipped to match Blender exports. A nil texture is white.
func Sample(tex *pixbuf.Image, uv mathutil.Vec2) mathutil.Vec4 {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return mathutil.Vec4{1, 1, 1, 1}
	}
	uv = uv.Clamp01()
	x := int(uv[0] * float64(tex.Width-1))
	y := int(uv[1] * float64(tex.Height-1))

	p := tex.GetPixel(x, tex.Height-1-y)
	return mathutil.Vec4{float64(p.R) / 255, float64(p.G) / 255, float64(p.B) / 255, 1}
}
