package tracer

import (
	"context"

	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// PathWorld is lit only by emissive spheres.
type PathWorld struct {
	Camera  Camera
	Spheres []Sphere
}

// Trace follows one random light path for at most depth bounces. At every hit
// the refraction branch is taken with probability Transparency, otherwise a
// blend of a random hemisphere direction and the mirror direction weighted
// by Reflectivity. Each bounce tints the carried light toward the material's
// diffuse color. A miss, an exhausted depth or total internal reflection
// ends the path.
func (w *PathWorld) Trace(ray Ray, depth int, rng Rand) mathutil.Vec3 {
	var color mathutil.Vec3
	throughput := white

	for ; depth > 0; depth-- {
		hit := Cast(w.Spheres, ray)
		if hit.Missed() {
			break
		}
		mat := hit.Material
		color = color.Add(throughput.Mul(mat.Emission))

		if rng.Float64() < mat.Transparency {
			// Entering uses the outward normal and 1/ior, leaving the reverse.
			normal, eta := hit.Normal, 1/refractionIndex(mat)
			if ray.Direction.Dot(hit.Normal) >= 0 {
				normal, eta = normal.Neg(), refractionIndex(mat)
			}
			dir := ray.Direction.Refract(normal, eta)
			if dir.IsZero() {
				break
			}
			throughput = throughput.Mul(mat.Diffuse.Lerp(white, mat.Transparency))
			ray = Ray{Origin: hit.Point.Sub(normal.Scale(mathutil.Delta)), Direction: dir.Normalize()}
			continue
		}

		diffuse := RandomDome(hit.Normal, rng)
		mirror := ray.Direction.Reflect(hit.Normal)
		dir := diffuse.Lerp(mirror, mat.Reflectivity).Normalize()
		if dir.IsZero() {
			break
		}
		throughput = throughput.Mul(mat.Diffuse.Lerp(white, mat.Reflectivity))
		ray = Ray{Origin: hit.Point.Add(hit.Normal.Scale(mathutil.Delta)), Direction: dir}
	}
	return color
}

func refractionIndex(m Material) float64 {
	if m.RefractionIndex <= 0 {
		return 1
	}
	return m.RefractionIndex
}

// Radiance returns the unclamped per-pixel average of samples paths,
// row-major.
func (w *PathWorld) Radiance(ctx context.Context, width, height, samples, depth int, opts Options) ([]mathutil.Vec3, error) {
	return radiance(ctx, w.Camera, width, height, samples, opts, "pathtrace", func(ray Ray, rng Rand) mathutil.Vec3 {
		return w.Trace(ray, depth, rng)
	})
}

// Render path-traces every pixel of img.
func (w *PathWorld) Render(ctx context.Context, img *pixbuf.Image, samples, depth int, opts Options) error {
	rad, err := w.Radiance(ctx, img.Width, img.Height, samples, depth, opts)
	if err != nil {
		return err
	}
	store(img, rad)
	return nil
}
