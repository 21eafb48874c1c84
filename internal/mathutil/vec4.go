package mathutil

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float64

func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

func (a Vec4) Mul(b Vec4) Vec4 {
	return Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// Div divides every component by s.
func (v Vec4) Div(s float64) Vec4 {
	return Vec4{v[0] / s, v[1] / s, v[2] / s, v[3] / s}
}

func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Clamp01 limits every component to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	return Vec4{Clamp(v[0], 0, 1), Clamp(v[1], 0, 1), Clamp(v[2], 0, 1), Clamp(v[3], 0, 1)}
}

// Vec2 is a 2-component vector, used for texture coordinates.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

func (v Vec2) Clamp01() Vec2 {
	return Vec2{Clamp(v[0], 0, 1), Clamp(v[1], 0, 1)}
}
