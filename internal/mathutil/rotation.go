package mathutil

import "math"

// Unit axes.
var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}
)

// Rotate returns the right-handed rotation by angle radians around axis
// (Rodrigues' formula). A zero axis gives the identity.
func Rotate(axis Vec3, angle float64) Mat4 {
	if axis.IsZero() {
		return Mat4Identity()
	}
	u := axis.Normalize()
	x, y, z := u[0], u[1], u[2]
	s, c := math.Sincos(angle)
	k := 1 - c
	return Mat4{
		k*x*x + c, k*x*y - s*z, k*x*z + s*y, 0,
		k*x*y + s*z, k*y*y + c, k*y*z - s*x, 0,
		k*x*z - s*y, k*y*z + s*x, k*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Orientation builds a model rotation from angles {pitch, roll, yaw} in
// radians, applied roll first, then pitch, then yaw.
func Orientation(angles Vec3) Mat4 {
	yaw := Rotate(AxisY, angles[2])
	pitch := Rotate(AxisX, angles[0])
	roll := Rotate(AxisZ, angles[1])
	return Mat4Mul(Mat4Mul(yaw, pitch), roll)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
