package tracer

import (
	"context"
	"math"
	"testing"

	"softrender/internal/batch"
	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

var boxCamera = Camera{
	Position: mathutil.Vec3{0, 0, 25},
	Back:     mathutil.Vec3{0, 0, 1},
	Up:       mathutil.Vec3{0, 0.5, 0},
	Right:    mathutil.Vec3{0.5, 0, 0},
}

func wall(center mathutil.Vec3, emission, diffuse mathutil.Vec3) Sphere {
	return Sphere{Radius: 10000, Center: center, Material: Material{Emission: emission, Diffuse: diffuse}}
}

// cornell is a closed box lit by its ceiling with a glass, a mirror and a
// dielectric ball.
func cornell() *PathWorld {
	none := mathutil.Vec3{}
	return &PathWorld{
		Camera: boxCamera,
		Spheres: []Sphere{
			wall(mathutil.Vec3{0, -10010, 0}, none, mathutil.Vec3{.8, .8, .8}),
			wall(mathutil.Vec3{-10010, 0, 0}, none, mathutil.Vec3{1, 0, 0}),
			wall(mathutil.Vec3{10010, 0, 0}, none, mathutil.Vec3{0, 1, 0}),
			wall(mathutil.Vec3{0, 0, -10010}, none, mathutil.Vec3{.8, .8, 0}),
			wall(mathutil.Vec3{0, 0, 10030}, none, mathutil.Vec3{0, .8, .8}),
			wall(mathutil.Vec3{0, 10010, 0}, mathutil.Vec3{1, 1, 1}, mathutil.Vec3{.8, .8, .8}),
			{Radius: 2, Center: mathutil.Vec3{-5, -8, 3}, Material: Material{Diffuse: mathutil.Vec3{.7, .7, 0}, Reflectivity: 1, Transparency: .95, RefractionIndex: 1.52}},
			{Radius: 4, Center: mathutil.Vec3{0, -6, 0}, Material: Material{Diffuse: mathutil.Vec3{.7, .5, .1}, Reflectivity: 1}},
			{Radius: 10, Center: mathutil.Vec3{10, 10, -10}, Material: Material{Diffuse: mathutil.Vec3{0, 0, 1}, RefractionIndex: 1.54}},
		},
	}
}

func phongBox() *PhongWorld {
	none := mathutil.Vec3{}
	lights := []Light{
		{Position: mathutil.Vec3{-5, 5, 9}, Color: mathutil.Vec3{1, 1, 1}, AttConst: 1, AttLinear: .1},
		{Position: mathutil.Vec3{5, 0, 15}, Color: mathutil.Vec3{.2, .5, .2}, AttConst: 1, AttLinear: .1, AttQuad: .01},
	}
	spheres := []Sphere{
		wall(mathutil.Vec3{0, -10010, 0}, none, mathutil.Vec3{.8, .8, .8}),
		wall(mathutil.Vec3{-10010, 0, 0}, none, mathutil.Vec3{1, 0, 0}),
		wall(mathutil.Vec3{10010, 0, 0}, none, mathutil.Vec3{0, 1, 0}),
		wall(mathutil.Vec3{0, 0, -10010}, none, mathutil.Vec3{.8, .8, 0}),
		wall(mathutil.Vec3{0, 10010, 0}, mathutil.Vec3{.3, .3, .3}, mathutil.Vec3{.8, .8, .8}),
		{Radius: 2, Center: mathutil.Vec3{-5, -8, 3}, Material: Material{Diffuse: mathutil.Vec3{.7, .7, 0}, Shininess: 3}},
		{Radius: 4, Center: mathutil.Vec3{0, -6, 0}, Material: Material{Diffuse: mathutil.Vec3{.7, .5, .1}, Shininess: 5}},
		{Radius: 10, Center: mathutil.Vec3{10, 10, -10}, Material: Material{Diffuse: mathutil.Vec3{0, 0, 1}, Shininess: 30}},
	}
	return NewPhongWorld(boxCamera, lights, spheres)
}

func luminance(c mathutil.Vec3) float64 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

func TestCenterRayHitsAtDistance23(t *testing.T) {
	ray := boxCamera.GenerateRay(1, 1, 2, 2, fixedRand(0))
	if ray.Direction != (mathutil.Vec3{0, 0, -1}) {
		t.Fatalf("center ray direction = %v", ray.Direction)
	}
	s := Sphere{Radius: 2}
	hit := s.Hit(ray)
	if math.Abs(hit.Distance-23) > 1e-9 {
		t.Errorf("distance = %g, want 23", hit.Distance)
	}
	if hit.Normal != (mathutil.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v", hit.Normal)
	}
}

func TestSphereMissIsNoHit(t *testing.T) {
	s := Sphere{Radius: 2}
	tests := []struct {
		name string
		ray  Ray
	}{
		{"away", NewRay(mathutil.Vec3{0, 0, 25}, mathutil.Vec3{0, 0, 1})},
		{"beside", NewRay(mathutil.Vec3{0, 3, 25}, mathutil.Vec3{0, 0, -1})},
		{"tangent", NewRay(mathutil.Vec3{0, 2, 25}, mathutil.Vec3{0, 0, -1})},
		{"zero direction", Ray{Origin: mathutil.Vec3{0, 0, 25}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := s.Hit(tt.ray)
			if hit != NoHit {
				t.Errorf("hit = %+v, want NoHit", hit)
			}
			if !hit.Missed() || !math.IsInf(hit.Distance, 1) {
				t.Error("miss must have infinite distance")
			}
		})
	}
}

func TestSphereHitLiesOnSurface(t *testing.T) {
	s := Sphere{Radius: 3, Center: mathutil.Vec3{1, -2, 0.5}}
	rng := batch.RowRand(3, 0)
	for i := 0; i < 200; i++ {
		origin := SphericalRand(rng).Scale(10).Add(s.Center)
		target := SphericalRand(rng).Scale(2).Add(s.Center)
		hit := s.Hit(NewRay(origin, target.Sub(origin)))
		if hit.Missed() {
			t.Fatalf("ray %d missed", i)
		}
		if d := hit.Point.Sub(s.Center).Len(); math.Abs(d-s.Radius) > 1e-9 {
			t.Fatalf("|p-c| = %g, want %g", d, s.Radius)
		}
	}

	// From inside only the far root counts.
	hit := s.Hit(NewRay(s.Center, mathutil.Vec3{1, 0, 0}))
	if math.Abs(hit.Distance-s.Radius) > 1e-12 {
		t.Errorf("inside distance = %g, want %g", hit.Distance, s.Radius)
	}
}

func TestCastPicksNearest(t *testing.T) {
	near := Sphere{Radius: 1, Center: mathutil.Vec3{0, 0, 5}, Material: Material{Shininess: 1}}
	far := Sphere{Radius: 1, Center: mathutil.Vec3{0, 0, -5}, Material: Material{Shininess: 2}}
	ray := NewRay(mathutil.Vec3{0, 0, 20}, mathutil.Vec3{0, 0, -1})
	for _, spheres := range [][]Sphere{{near, far}, {far, near}} {
		if hit := Cast(spheres, ray); hit.Material.Shininess != 1 || math.Abs(hit.Distance-14) > 1e-9 {
			t.Errorf("cast = %+v, want near sphere at 14", hit)
		}
	}
	if Cast(nil, ray) != NoHit {
		t.Error("empty world must return NoHit")
	}
}

func TestShadowBlocksLight(t *testing.T) {
	target := Sphere{Radius: 1, Material: Material{Diffuse: mathutil.Vec3{1, 1, 1}, Shininess: 10}}
	occluder := Sphere{Radius: 0.5, Center: mathutil.Vec3{2.5, 0, 3.5}}
	light := Light{Position: mathutil.Vec3{5, 0, 6}, Color: mathutil.Vec3{1, 1, 1}, AttConst: 1}
	ray := NewRay(mathutil.Vec3{0, 0, 10}, mathutil.Vec3{0, 0, -1})

	shadowed := NewPhongWorld(boxCamera, []Light{light}, []Sphere{target, occluder})
	lit := NewPhongWorld(boxCamera, []Light{light}, []Sphere{target})

	got := shadowed.Trace(ray)
	if got != DefaultAmbient {
		t.Errorf("shadowed = %v, want ambient only %v", got, DefaultAmbient)
	}
	if l := luminance(lit.Trace(ray)); !(l > luminance(got)) {
		t.Errorf("removing occluder did not brighten: %g <= %g", l, luminance(got))
	}
}

func TestZeroLightsIsAmbientPlusEmission(t *testing.T) {
	glow := mathutil.Vec3{0.2, 0.3, 0.4}
	w := NewPhongWorld(boxCamera, nil, []Sphere{{Radius: 1, Material: Material{Emission: glow, Diffuse: white}}})
	got := w.Trace(NewRay(mathutil.Vec3{0, 0, 10}, mathutil.Vec3{0, 0, -1}))
	if want := DefaultAmbient.Add(glow); got != want {
		t.Errorf("trace = %v, want %v", got, want)
	}
	if miss := w.Trace(NewRay(mathutil.Vec3{0, 0, 10}, mathutil.Vec3{0, 0, 1})); miss != (mathutil.Vec3{}) {
		t.Errorf("miss = %v, want black", miss)
	}
}

func TestDomeSamples(t *testing.T) {
	rng := batch.RowRand(11, 0)
	n := mathutil.Vec3{0.3, -0.9, 0.1}.Normalize()
	for i := 0; i < 1000; i++ {
		p := RandomDome(n, rng)
		if p.Dot(n) < 0 {
			t.Fatalf("sample %v below the dome", p)
		}
		if math.Abs(p.Len()-1) > 1e-12 {
			t.Fatalf("sample %v not unit length", p)
		}
	}
}

func TestPathTraceTermination(t *testing.T) {
	w := cornell()
	ray := NewRay(boxCamera.Position, mathutil.Vec3{0, 0, -1})
	if c := w.Trace(ray, 0, fixedRand(0.5)); c != (mathutil.Vec3{}) {
		t.Errorf("depth 0 = %v, want black", c)
	}

	lamp := &PathWorld{Spheres: []Sphere{{Radius: 1, Material: Material{Emission: mathutil.Vec3{1, 2, 3}}}}}
	if c := lamp.Trace(NewRay(mathutil.Vec3{0, 0, 5}, mathutil.Vec3{0, 0, -1}), 1, fixedRand(0.5)); c != (mathutil.Vec3{1, 2, 3}) {
		t.Errorf("single bounce = %v, want emission", c)
	}
	if c := lamp.Trace(NewRay(mathutil.Vec3{0, 0, 5}, mathutil.Vec3{0, 0, 1}), 5, fixedRand(0.5)); c != (mathutil.Vec3{}) {
		t.Errorf("miss = %v, want black", c)
	}
}

func TestTotalInternalReflectionEndsPath(t *testing.T) {
	glass := Sphere{Radius: 1, Material: Material{Transparency: 1, RefractionIndex: 1.5, Diffuse: white}}
	lamp := Sphere{Radius: 100, Center: mathutil.Vec3{0, 0, 0}, Material: Material{Emission: white}}
	w := &PathWorld{Spheres: []Sphere{glass, lamp}}

	// Leaving the glass at a grazing angle cannot refract.
	origin := mathutil.Vec3{0, 0.99, 0}
	ray := NewRay(origin, mathutil.Vec3{1, 0, 0})
	if c := w.Trace(ray, 3, fixedRand(0)); c != (mathutil.Vec3{}) {
		t.Errorf("trace = %v, want black", c)
	}
}

func mse(a, b []mathutil.Vec3) float64 {
	var sum float64
	for i := range a {
		d := a[i].Sub(b[i])
		sum += d.Dot(d)
	}
	return sum / float64(3*len(a))
}

func TestPathTraceConverges(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	const size, depth = 8, 5
	ctx := context.Background()
	w := cornell()

	ref, err := w.Radiance(ctx, size, size, 4096, depth, Options{Seed: 99})
	if err != nil {
		t.Fatal(err)
	}

	prev := math.Inf(1)
	for i, samples := range []int{1, 16, 256} {
		rad, err := w.Radiance(ctx, size, size, samples, depth, Options{Seed: uint64(i + 1)})
		if err != nil {
			t.Fatal(err)
		}
		e := mse(rad, ref)
		if !(e < prev) {
			t.Errorf("samples %d: mse %g did not drop below %g", samples, e, prev)
		}
		prev = e
	}
}

func TestWorkerCountDoesNotChangeImage(t *testing.T) {
	ctx := context.Background()
	t.Run("phong", func(t *testing.T) {
		w := phongBox()
		a, err := w.Radiance(ctx, 16, 12, 4, Options{Workers: 1, Seed: 5})
		if err != nil {
			t.Fatal(err)
		}
		b, err := w.Radiance(ctx, 16, 12, 4, Options{Workers: 6, Seed: 5})
		if err != nil {
			t.Fatal(err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("pixel %d differs: %v vs %v", i, a[i], b[i])
			}
		}
	})
	t.Run("path", func(t *testing.T) {
		w := cornell()
		a, err := w.Radiance(ctx, 12, 10, 8, 5, Options{Workers: 1, Seed: 5})
		if err != nil {
			t.Fatal(err)
		}
		b, err := w.Radiance(ctx, 12, 10, 8, 5, Options{Workers: 4, Seed: 5})
		if err != nil {
			t.Fatal(err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("pixel %d differs: %v vs %v", i, a[i], b[i])
			}
		}
	})
}

func TestRenderWritesImage(t *testing.T) {
	img := pixbuf.New(16, 16)
	if err := phongBox().Render(context.Background(), img, 1, Options{}); err != nil {
		t.Fatal(err)
	}
	lit := 0
	for _, p := range img.Pix {
		if p != (pixbuf.Pixel{}) {
			lit++
		}
	}
	if lit != len(img.Pix) {
		t.Errorf("%d of %d pixels black inside a closed box", len(img.Pix)-lit, len(img.Pix))
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cornell().Render(ctx, pixbuf.New(8, 8), 1, 2, Options{}); err == nil {
		t.Error("expected context error")
	}
	if _, err := cornell().Radiance(context.Background(), 0, 4, 1, 1, Options{}); err == nil {
		t.Error("expected size error")
	}
}
