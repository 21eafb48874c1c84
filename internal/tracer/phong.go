package tracer

import (
	"context"
	"math"

	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// DefaultAmbient is the constant term NewPhongWorld adds to every hit.
var DefaultAmbient = mathutil.Vec3{0.1, 0.1, 0.1}

// Light is a point light with 1/(const + linear·d + quad·d²) attenuation.
type Light struct {
	Position  mathutil.Vec3
	Color     mathutil.Vec3
	AttConst  float64
	AttLinear float64
	AttQuad   float64
}

func (l Light) attenuation(d float64) float64 {
	return 1 / (l.AttConst + l.AttLinear*d + l.AttQuad*d*d)
}

// PhongWorld is shaded with direct light only and hard shadows.
type PhongWorld struct {
	Camera  Camera
	Lights  []Light
	Spheres []Sphere
	Ambient mathutil.Vec3
}

// NewPhongWorld returns a world with the default ambient term.
func NewPhongWorld(cam Camera, lights []Light, spheres []Sphere) *PhongWorld {
	return &PhongWorld{Camera: cam, Lights: lights, Spheres: spheres, Ambient: DefaultAmbient}
}

// Cast returns the nearest sphere hit along ray.
func (w *PhongWorld) Cast(ray Ray) Hit {
	return Cast(w.Spheres, ray)
}

// Trace shades the nearest hit: ambient, emission, and for every light that
// is not occluded a Lambert diffuse and a Phong specular term. A miss is
// black.
func (w *PhongWorld) Trace(ray Ray) mathutil.Vec3 {
	hit := w.Cast(ray)
	if hit.Missed() {
		return mathutil.Vec3{}
	}

	mat := hit.Material
	color := w.Ambient.Add(mat.Emission)
	for _, light := range w.Lights {
		toLight := light.Position.Sub(hit.Point)
		dist := toLight.Len()
		dir := toLight.Normalize()

		shadow := w.Cast(Ray{Origin: hit.Point.Add(hit.Normal.Scale(mathutil.Delta)), Direction: dir})
		if shadow.Distance < dist {
			continue
		}

		att := light.attenuation(dist)
		dif := mathutil.Clamp(dir.Dot(hit.Normal), 0, 1)
		color = color.Add(mat.Diffuse.Mul(light.Color).Scale(att * dif))

		spec := mathutil.Clamp(ray.Direction.Reflect(hit.Normal).Dot(dir), 0, 1)
		color = color.Add(light.Color.Scale(att * math.Pow(spec, mat.Shininess)))
	}
	return color
}

// Radiance returns the unclamped per-pixel average of samples traces,
// row-major.
func (w *PhongWorld) Radiance(ctx context.Context, width, height, samples int, opts Options) ([]mathutil.Vec3, error) {
	return radiance(ctx, w.Camera, width, height, samples, opts, "raycast", func(ray Ray, _ Rand) mathutil.Vec3 {
		return w.Trace(ray)
	})
}

// Render traces every pixel of img.
func (w *PhongWorld) Render(ctx context.Context, img *pixbuf.Image, samples int, opts Options) error {
	rad, err := w.Radiance(ctx, img.Width, img.Height, samples, opts)
	if err != nil {
		return err
	}
	store(img, rad)
	return nil
}
