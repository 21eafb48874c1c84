package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"softrender/internal/mathutil"
)

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ reads v, vt, vn and f statements. Polygons are fan-triangulated
// and negative indices count back from the last element. Other statements
// are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var p []float64
			if p, err = floats(fields[1:], 3); err == nil {
				m.Positions = append(m.Positions, mathutil.Vec4{p[0], p[1], p[2], 1})
			}
		case "vn":
			var n []float64
			if n, err = floats(fields[1:], 3); err == nil {
				m.Normals = append(m.Normals, mathutil.Vec4{n[0], n[1], n[2], 0})
			}
		case "vt":
			var t []float64
			if t, err = floats(fields[1:], 2); err == nil {
				m.UVs = append(m.UVs, mathutil.Vec2{t[0], t[1]})
			}
		case "f":
			err = m.addFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return m, nil
}

func floats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type corner struct {
	v, t, n int
}

func (m *Mesh) addFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs 3 vertices, got %d", len(fields))
	}
	corners := make([]corner, len(fields))
	for i, f := range fields {
		c, err := m.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		m.Tris = append(m.Tris, Triangle{
			VI: [3]int{a.v, b.v, c.v},
			NI: [3]int{a.n, b.n, c.n},
			TI: [3]int{a.t, b.t, c.t},
		})
	}
	return nil
}

// parseCorner handles v, v/t, v//n and v/t/n.
func (m *Mesh) parseCorner(s string) (corner, error) {
	parts := strings.Split(s, "/")
	c := corner{t: -1, n: -1}
	var err error
	if c.v, err = resolve(parts[0], len(m.Positions)); err != nil {
		return c, fmt.Errorf("vertex %q: %w", s, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.t, err = resolve(parts[1], len(m.UVs)); err != nil {
			return c, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.n, err = resolve(parts[2], len(m.Normals)); err != nil {
			return c, fmt.Errorf("normal %q: %w", s, err)
		}
	}
	return c, nil
}

// resolve turns a 1-based or negative OBJ index into a 0-based one.
func resolve(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = count + i
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index out of range (have %d)", count)
	}
	return i, nil
}
