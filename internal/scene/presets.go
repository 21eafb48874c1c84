package scene

import (
	"fmt"
	"maps"
	"slices"

	"softrender/internal/mathutil"
)

var presets = map[string]func() *Scene{
	"raycast-box":  RaycastBox,
	"raytrace-box": RaytraceBox,
}

// Presets lists the built-in scene names.
func Presets() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Preset returns a fresh copy of a built-in scene.
func Preset(name string) (*Scene, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("scene: unknown preset %q (have %v)", name, Presets())
	}
	return fn(), nil
}

func boxCamera() Camera {
	return Camera{
		Position: mathutil.Vec3{0, 0, 25},
		Back:     mathutil.Vec3{0, 0, 1},
		Up:       mathutil.Vec3{0, .5, 0},
		Right:    mathutil.Vec3{.5, 0, 0},
	}
}

// wall is a huge sphere that reads as a plane from inside the box.
func wall(name string, center, diffuse mathutil.Vec3) Sphere {
	return Sphere{Name: name, Radius: 10000, Center: center, Material: Material{Diffuse: diffuse}}
}

// RaycastBox is an open box with a glowing ceiling, three balls and two
// point lights, for the Phong tracer.
func RaycastBox() *Scene {
	ceiling := wall("ceiling", mathutil.Vec3{0, 10010, 0}, mathutil.Vec3{.8, .8, .8})
	ceiling.Material.Emission = mathutil.Vec3{.3, .3, .3}
	return &Scene{
		Name:   "raycast-box",
		Camera: boxCamera(),
		Lights: []Light{
			{Position: mathutil.Vec3{-5, 5, 9}, Color: mathutil.Vec3{1, 1, 1}, AttConst: 1, AttLinear: .1},
			{Position: mathutil.Vec3{5, 0, 15}, Color: mathutil.Vec3{.2, .5, .2}, AttConst: 1, AttLinear: .1, AttQuad: .01},
		},
		Spheres: []Sphere{
			wall("floor", mathutil.Vec3{0, -10010, 0}, mathutil.Vec3{.8, .8, .8}),
			wall("left", mathutil.Vec3{-10010, 0, 0}, mathutil.Vec3{1, 0, 0}),
			wall("right", mathutil.Vec3{10010, 0, 0}, mathutil.Vec3{0, 1, 0}),
			wall("back", mathutil.Vec3{0, 0, -10010}, mathutil.Vec3{.8, .8, 0}),
			ceiling,
			{Name: "small", Radius: 2, Center: mathutil.Vec3{-5, -8, 3}, Material: Material{Diffuse: mathutil.Vec3{.7, .7, 0}, Shininess: 3}},
			{Name: "middle", Radius: 4, Center: mathutil.Vec3{0, -6, 0}, Material: Material{Diffuse: mathutil.Vec3{.7, .5, .1}, Shininess: 5}},
			{Name: "corner", Radius: 10, Center: mathutil.Vec3{10, 10, -10}, Material: Material{Diffuse: mathutil.Vec3{0, 0, 1}, Shininess: 30}},
		},
	}
}

// RaytraceBox is a closed box lit only by its ceiling, with a glass ball, a
// mirror ball and a blue ball, for the path tracer.
func RaytraceBox() *Scene {
	ceiling := wall("ceiling", mathutil.Vec3{0, 10010, 0}, mathutil.Vec3{.8, .8, .8})
	ceiling.Material.Emission = mathutil.Vec3{1, 1, 1}
	return &Scene{
		Name:   "raytrace-box",
		Camera: boxCamera(),
		Spheres: []Sphere{
			wall("floor", mathutil.Vec3{0, -10010, 0}, mathutil.Vec3{.8, .8, .8}),
			wall("left", mathutil.Vec3{-10010, 0, 0}, mathutil.Vec3{1, 0, 0}),
			wall("right", mathutil.Vec3{10010, 0, 0}, mathutil.Vec3{0, 1, 0}),
			wall("back", mathutil.Vec3{0, 0, -10010}, mathutil.Vec3{.8, .8, 0}),
			wall("front", mathutil.Vec3{0, 0, 10030}, mathutil.Vec3{0, .8, .8}),
			ceiling,
			{Name: "glass", Radius: 2, Center: mathutil.Vec3{-5, -8, 3}, Material: Material{
				Diffuse: mathutil.Vec3{.7, .7, 0}, Reflectivity: 1, Transparency: .95, RefractionIndex: 1.52,
			}},
			{Name: "mirror", Radius: 4, Center: mathutil.Vec3{0, -6, 0}, Material: Material{
				Diffuse: mathutil.Vec3{.7, .5, .1}, Reflectivity: 1,
			}},
			{Name: "blue", Radius: 10, Center: mathutil.Vec3{10, 10, -10}, Material: Material{
				Diffuse: mathutil.Vec3{0, 0, 1}, RefractionIndex: 1.54,
			}},
		},
	}
}
