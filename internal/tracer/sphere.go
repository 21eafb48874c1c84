package tracer

import (
	"math"

	"softrender/internal/mathutil"
)

// Sphere is the only primitive both tracers intersect.
type Sphere struct {
	Radius   float64
	Center   mathutil.Vec3
	Material Material
}

// Hit intersects ray with the sphere. The nearer root is used when it lies
// beyond MinDistance, otherwise the farther one (ray starting inside).
func (s Sphere) Hit(ray Ray) Hit {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	dis := b*b - a*c
	if !(dis > 0) || a == 0 {
		return NoHit
	}

	e := math.Sqrt(dis)
	for _, t := range [2]float64{(-b - e) / a, (-b + e) / a} {
		if t > MinDistance {
			p := ray.Point(t)
			return Hit{
				Distance: t,
				Point:    p,
				Normal:   p.Sub(s.Center).Normalize(),
				Material: s.Material,
			}
		}
	}
	return NoHit
}
