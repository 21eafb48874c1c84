// Package tracer implements a Phong ray tracer and a Monte Carlo path tracer
// over a world of spheres.
package tracer

import "softrender/internal/mathutil"

// Ray is a half-line. Direction is normally unit length.
type Ray struct {
	Origin    mathutil.Vec3
	Direction mathutil.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction mathutil.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// Point returns the point at parameter t along the ray.
func (r Ray) Point(t float64) mathutil.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
