// Package scene describes tracer worlds in JSON or TOML and converts them to
// tracer types.
package scene

import (
	"errors"
	"fmt"

	"softrender/internal/mathutil"
	"softrender/internal/tracer"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("scene: invalid")

// Camera is the pinhole frame; see tracer.Camera.
type Camera struct {
	Position mathutil.Vec3 `json:"position" toml:"position"`
	Back     mathutil.Vec3 `json:"back" toml:"back"`
	Up       mathutil.Vec3 `json:"up" toml:"up"`
	Right    mathutil.Vec3 `json:"right" toml:"right"`
}

// Material mirrors tracer.Material.
type Material struct {
	Emission        mathutil.Vec3 `json:"emission" toml:"emission"`
	Diffuse         mathutil.Vec3 `json:"diffuse" toml:"diffuse"`
	Shininess       float64       `json:"shininess,omitempty" toml:"shininess,omitempty"`
	Reflectivity    float64       `json:"reflectivity,omitempty" toml:"reflectivity,omitempty"`
	Transparency    float64       `json:"transparency,omitempty" toml:"transparency,omitempty"`
	RefractionIndex float64       `json:"refraction_index,omitempty" toml:"refraction_index,omitempty"`
}

// Sphere is one primitive.
type Sphere struct {
	Name     string        `json:"name,omitempty" toml:"name,omitempty"`
	Radius   float64       `json:"radius" toml:"radius"`
	Center   mathutil.Vec3 `json:"center" toml:"center"`
	Material Material      `json:"material" toml:"material"`
}

// Light is a point light for the Phong tracer; the path tracer ignores it.
type Light struct {
	Position  mathutil.Vec3 `json:"position" toml:"position"`
	Color     mathutil.Vec3 `json:"color" toml:"color"`
	AttConst  float64       `json:"att_const" toml:"att_const"`
	AttLinear float64       `json:"att_linear" toml:"att_linear"`
	AttQuad   float64       `json:"att_quad" toml:"att_quad"`
}

// Scene is a camera, spheres and optional lights.
type Scene struct {
	Name    string         `json:"name" toml:"name"`
	Camera  Camera         `json:"camera" toml:"camera"`
	Ambient *mathutil.Vec3 `json:"ambient,omitempty" toml:"ambient,omitempty"` // nil means tracer.DefaultAmbient
	Lights  []Light        `json:"lights,omitempty" toml:"lights,omitempty"`
	Spheres []Sphere       `json:"spheres" toml:"spheres"`
}

// Validate checks the scene before rendering.
func (s *Scene) Validate() error {
	c := s.Camera
	if c.Back.IsZero() || c.Up.IsZero() || c.Right.IsZero() {
		return fmt.Errorf("%w: camera back, up and right must be non-zero", ErrInvalid)
	}
	for i, sp := range s.Spheres {
		if !(sp.Radius > 0) {
			return fmt.Errorf("%w: sphere %d %q: radius %g", ErrInvalid, i, sp.Name, sp.Radius)
		}
		m := sp.Material
		if m.Reflectivity < 0 || m.Reflectivity > 1 {
			return fmt.Errorf("%w: sphere %d %q: reflectivity %g outside [0,1]", ErrInvalid, i, sp.Name, m.Reflectivity)
		}
		if m.Transparency < 0 || m.Transparency > 1 {
			return fmt.Errorf("%w: sphere %d %q: transparency %g outside [0,1]", ErrInvalid, i, sp.Name, m.Transparency)
		}
		if m.Transparency > 0 && !(m.RefractionIndex > 0) {
			return fmt.Errorf("%w: sphere %d %q: transparent without refraction index", ErrInvalid, i, sp.Name)
		}
		if m.Shininess < 0 {
			return fmt.Errorf("%w: sphere %d %q: negative shininess", ErrInvalid, i, sp.Name)
		}
	}
	for i, l := range s.Lights {
		if l.AttConst < 0 || l.AttLinear < 0 || l.AttQuad < 0 || l.AttConst+l.AttLinear+l.AttQuad == 0 {
			return fmt.Errorf("%w: light %d: attenuation must be non-negative and not all zero", ErrInvalid, i)
		}
	}
	return nil
}

func (s *Scene) camera() tracer.Camera {
	return tracer.Camera{
		Position: s.Camera.Position,
		Back:     s.Camera.Back,
		Up:       s.Camera.Up,
		Right:    s.Camera.Right,
	}
}

func (s *Scene) spheres() []tracer.Sphere {
	out := make([]tracer.Sphere, len(s.Spheres))
	for i, sp := range s.Spheres {
		m := sp.Material
		out[i] = tracer.Sphere{
			Radius: sp.Radius,
			Center: sp.Center,
			Material: tracer.Material{
				Emission:        m.Emission,
				Diffuse:         m.Diffuse,
				Shininess:       m.Shininess,
				Reflectivity:    m.Reflectivity,
				Transparency:    m.Transparency,
				RefractionIndex: m.RefractionIndex,
			},
		}
	}
	return out
}

// PhongWorld converts the scene for the Phong tracer.
func (s *Scene) PhongWorld() *tracer.PhongWorld {
	lights := make([]tracer.Light, len(s.Lights))
	for i, l := range s.Lights {
		lights[i] = tracer.Light(l)
	}
	w := tracer.NewPhongWorld(s.camera(), lights, s.spheres())
	if s.Ambient != nil {
		w.Ambient = *s.Ambient
	}
	return w
}

// PathWorld converts the scene for the path tracer.
func (s *Scene) PathWorld() *tracer.PathWorld {
	return &tracer.PathWorld{Camera: s.camera(), Spheres: s.spheres()}
}
