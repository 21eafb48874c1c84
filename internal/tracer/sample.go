package tracer

import (
	"math"

	"softrender/internal/mathutil"
)

// SphericalRand returns a uniformly distributed point on the unit sphere.
func SphericalRand(rng Rand) mathutil.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	return mathutil.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// RandomDome returns a uniform direction on the hemisphere around normal,
// by rejection from the full sphere.
func RandomDome(normal mathutil.Vec3, rng Rand) mathutil.Vec3 {
	for {
		p := SphericalRand(rng)
		if p.Dot(normal) >= 0 {
			return p
		}
	}
}
