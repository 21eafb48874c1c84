package tracer

import "softrender/internal/mathutil"

// Rand is the part of a random generator the samplers use. *rand.Rand from
// golang.org/x/exp/rand satisfies it.
type Rand interface {
	Float64() float64
}

// Camera is a pinhole defined by its position and a frame. Back points away
// from the view direction; Up and Right span half the image plane at unit
// distance.
type Camera struct {
	Position mathutil.Vec3
	Back     mathutil.Vec3
	Up       mathutil.Vec3
	Right    mathutil.Vec3
}

// GenerateRay returns a ray through pixel (x, y) of a width×height image,
// jittered uniformly inside the pixel footprint.
func (c Camera) GenerateRay(x, y, width, height int, rng Rand) Ray {
	vdu := c.Right.Scale(2 / float64(width))
	vdv := c.Up.Neg().Scale(2 / float64(height))

	u := float64(-width/2+x) + rng.Float64()
	v := float64(-height/2+y) + rng.Float64()
	dir := c.Back.Neg().Add(vdu.Scale(u)).Add(vdv.Scale(v))
	return NewRay(c.Position, dir)
}
