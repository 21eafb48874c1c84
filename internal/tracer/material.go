package tracer

import "softrender/internal/mathutil"

// Material describes a sphere surface. The Phong tracer reads Emission,
// Diffuse and Shininess; the path tracer reads Emission, Diffuse,
// Reflectivity, Transparency and RefractionIndex.
type Material struct {
	Emission        mathutil.Vec3
	Diffuse         mathutil.Vec3
	Shininess       float64
	Reflectivity    float64 // 0 diffuse .. 1 mirror
	Transparency    float64 // probability of taking the refraction branch
	RefractionIndex float64
}

var white = mathutil.Vec3{1, 1, 1}
