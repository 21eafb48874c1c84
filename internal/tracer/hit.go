package tracer

import (
	"math"

	"softrender/internal/mathutil"
)

// MinDistance is the smallest ray parameter accepted as a hit. Rays leaving a
// surface would otherwise re-hit it through rounding noise.
var MinDistance = mathutil.Delta

// Hit is the nearest intersection found along a ray.
type Hit struct {
	Distance float64
	Point    mathutil.Vec3
	Normal   mathutil.Vec3 // unit, pointing out of the sphere
	Material Material
}

// NoHit is returned when a ray intersects nothing. It is the identity of the
// nearest-hit reduction in Cast.
var NoHit = Hit{Distance: math.Inf(1)}

// Missed reports whether h is a miss.
func (h Hit) Missed() bool {
	return math.IsInf(h.Distance, 1)
}

// Cast returns the nearest hit of ray against spheres, or NoHit.
func Cast(spheres []Sphere, ray Ray) Hit {
	hit := NoHit
	for i := range spheres {
		if h := spheres[i].Hit(ray); h.Distance < hit.Distance {
			hit = h
		}
	}
	return hit
}
