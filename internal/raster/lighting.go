package raster

import (
	"math"

	"softrender/internal/mathutil"
)

// DirectionalLight is a Lambert term for the fragment shader.
type DirectionalLight struct {
	Direction mathutil.Vec3 // towards the light, world space
	Ambient   float64
	Intensity float64
}

// DefaultLight lights from the upper right front.
func DefaultLight() *DirectionalLight {
	return &DirectionalLight{
		Direction: mathutil.Vec3{0.5, 0.5, 0.5},
		Ambient:   0.2,
		Intensity: 0.8,
	}
}

// Shade returns the lighting scalar for a world-space normal.
func (l *DirectionalLight) Shade(normal mathutil.Vec4) float64 {
	n := normal.XYZ().Normalize()
	ndl := math.Max(0, n.Dot(l.Direction.Normalize()))
	return l.Ambient + ndl*l.Intensity
}
