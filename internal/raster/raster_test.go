package raster

import (
	"context"
	"math"
	"testing"

	"softrender/internal/batch"
	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

var (
	red  = mathutil.Vec4{1, 0, 0, 1}
	blue = mathutil.Vec4{0, 0, 1, 1}
)

func vtx(x, y, z float64, color mathutil.Vec4) Vertex {
	return Vertex{Position: mathutil.Vec4{x, y, z, 1}, Color: color}
}

func TestGoldenTriangle(t *testing.T) {
	img := pixbuf.New(512, 512)
	r := New(img, NewShaderProgram(nil))
	r.Render(Face{
		V0: vtx(0, 0.8, 0, red),
		V1: vtx(0.8, -0.8, 0, red),
		V2: vtx(-0.8, -0.8, 0, red),
	})

	redPx := pixbuf.Pixel{R: 255}
	count := 0
	for _, p := range img.Pix {
		switch p {
		case redPx:
			count++
		case DefaultBackground:
		default:
			t.Fatalf("unexpected pixel %+v", p)
		}
	}

	want := 0.32 * 512 * 512
	if math.Abs(float64(count)-want) > 0.02*want {
		t.Errorf("red pixels = %d, want %.0f ±2%%", count, want)
	}
	if got := img.GetPixel(256, 256); got != redPx {
		t.Errorf("center = %+v, want red", got)
	}
	for _, c := range [][2]int{{0, 0}, {511, 0}, {0, 511}, {511, 511}} {
		if got := img.GetPixel(c[0], c[1]); got != DefaultBackground {
			t.Errorf("corner %v = %+v, want background", c, got)
		}
	}
}

func TestVertexOrderDoesNotMatter(t *testing.T) {
	verts := []Vertex{
		vtx(-0.7, -0.5, 0.1, red),
		vtx(0.6, -0.2, 0.5, red),
		vtx(0.1, 0.9, -0.3, red),
	}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	var ref *Rasterizer
	for _, p := range perms {
		r := New(pixbuf.New(64, 64), NewShaderProgram(nil))
		r.Render(Face{verts[p[0]], verts[p[1]], verts[p[2]]})
		if ref == nil {
			ref = r
			continue
		}
		for i := range r.depth {
			a, b := r.depth[i], ref.depth[i]
			if math.IsInf(a, 1) != math.IsInf(b, 1) || (!math.IsInf(a, 1) && math.Abs(a-b) > 1e-12) {
				t.Fatalf("perm %v: depth[%d] = %g, want %g", p, i, a, b)
			}
		}
	}
}

func TestDepthKeepsNearest(t *testing.T) {
	far := Face{vtx(-1, -1, 0.3, red), vtx(5, -1, 0.3, red), vtx(-1, 5, 0.3, red)}
	near := Face{vtx(-1, -1, -0.2, blue), vtx(5, -1, -0.2, blue), vtx(-1, 5, -0.2, blue)}

	for _, order := range [][]Face{{far, near}, {near, far}} {
		img := pixbuf.New(32, 32)
		r := New(img, NewShaderProgram(nil))
		for _, f := range order {
			r.Render(f)
		}
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				if d := r.Depth(x, y); math.Abs(d-(-0.2)) > 1e-12 {
					t.Fatalf("depth(%d,%d) = %g, want -0.2", x, y, d)
				}
				if p := img.GetPixel(x, y); p != (pixbuf.Pixel{B: 255}) {
					t.Fatalf("pixel(%d,%d) = %+v, want blue", x, y, p)
				}
			}
		}
	}
}

func TestCoveringTriangleHasNoHoles(t *testing.T) {
	// Fractional viewport corners give inexact interpolation parameters on
	// every scanline.
	face := Face{vtx(-1.3, -1.1, 0.25, red), vtx(5.7, -1.2, 0.25, red), vtx(-1.1, 5.3, 0.25, red)}
	sizes := [][2]int{{32, 32}, {33, 17}, {50, 41}, {97, 64}}

	for _, size := range sizes {
		for _, parallel := range []bool{false, true} {
			img := pixbuf.New(size[0], size[1])
			r := New(img, NewShaderProgram(nil))
			if parallel {
				r.Parallel = batch.Config{Workers: 3}
				if err := r.RenderFaces(context.Background(), []Face{face}); err != nil {
					t.Fatal(err)
				}
			} else {
				r.Render(face)
			}

			holes := 0
			for y := 0; y < img.Height; y++ {
				for x := 0; x < img.Width; x++ {
					if math.IsInf(r.Depth(x, y), 1) || img.GetPixel(x, y) != (pixbuf.Pixel{R: 255}) {
						holes++
					}
				}
			}
			if holes > 0 {
				t.Errorf("%dx%d parallel=%v: %d pixels left unpainted", size[0], size[1], parallel, holes)
			}
		}
	}
}

// recorder keeps every fragment that passed the depth test.
type recorder struct {
	ShaderProgram
	frags []Vertex
}

func (p *recorder) FragmentShader(v Vertex) mathutil.Vec4 {
	p.frags = append(p.frags, v)
	return mathutil.Vec4{1, 1, 1, 1}
}

func TestPerspectiveCorrectTexCoords(t *testing.T) {
	const size = 64
	view := mathutil.LookAt(mathutil.Vec3{0, -2, 1.5}, mathutil.Vec3{}, mathutil.Vec3{0, 0, 1})
	proj := mathutil.Perspective(mathutil.Deg2Rad(60), 1, 0.1, 10)
	prog := &recorder{ShaderProgram: ShaderProgram{
		Model:      mathutil.Mat4Identity(),
		View:       view,
		Projection: proj,
	}}
	r := New(pixbuf.New(size, size), prog)

	corner := func(x, y float64) Vertex {
		return Vertex{
			Position: mathutil.Vec4{x, y, 0, 1},
			TexCoord: mathutil.Vec2{(x + 1) / 2, (y + 1) / 2},
			Color:    mathutil.Vec4{1, 1, 1, 1},
		}
	}
	a, b, c, d := corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)
	r.Render(Face{a, b, c})
	r.Render(Face{a, c, d})
	if len(prog.frags) < 500 {
		t.Fatalf("only %d fragments rendered", len(prog.frags))
	}

	inv := mathutil.Mat4Mul(proj, view).Inverse()
	unproject := func(ndcX, ndcY, ndcZ float64) mathutil.Vec3 {
		p := inv.MulVec4(mathutil.Vec4{ndcX, ndcY, ndcZ, 1})
		return p.XYZ().Scale(1 / p[3])
	}
	for _, f := range prog.frags {
		ndcX := 2*f.Position[0]/size - 1
		ndcY := 1 - 2*f.Position[1]/size
		n := unproject(ndcX, ndcY, -1)
		fa := unproject(ndcX, ndcY, 1)
		s := -n[2] / (fa[2] - n[2])
		hit := n.Add(fa.Sub(n).Scale(s))
		want := mathutil.Vec2{(hit[0] + 1) / 2, (hit[1] + 1) / 2}
		if math.Abs(f.TexCoord[0]-want[0]) > 1e-6 || math.Abs(f.TexCoord[1]-want[1]) > 1e-6 {
			t.Fatalf("fragment at (%.2f,%.2f): uv = %v, want %v", f.Position[0], f.Position[1], f.TexCoord, want)
		}
	}

	// Affine interpolation between a near and a far corner is visibly off.
	va := r.ToViewport(prog.VertexShader(a))
	vc := r.ToViewport(prog.VertexShader(c))
	correct := Lerp(va, vc, 0.5).TexCoord
	affine := va.TexCoord.Lerp(vc.TexCoord, 0.5)
	if math.Abs(correct[0]-affine[0]) < 0.01 {
		t.Errorf("perspective and affine uv agree: %v vs %v", correct, affine)
	}
}

func TestOffscreenGeometry(t *testing.T) {
	img := pixbuf.New(40, 30)
	r := New(img, NewShaderProgram(nil))

	r.Render(Face{vtx(3, 3, 0, red), vtx(5, 3, 0, red), vtx(4, 5, 0, red)})
	for _, p := range img.Pix {
		if p != DefaultBackground {
			t.Fatal("fully offscreen triangle touched the image")
		}
	}

	r.Render(Face{vtx(-4, -3, 0, red), vtx(4, -3, 0, red), vtx(0, 5, 0, red)})
	for _, p := range img.Pix {
		if p != (pixbuf.Pixel{R: 255}) {
			t.Fatal("covering triangle left a pixel unpainted")
		}
	}
}

func TestDegenerateTriangles(t *testing.T) {
	r := New(pixbuf.New(16, 16), NewShaderProgram(nil))
	faces := []Face{
		{vtx(0, 0, 0, red), vtx(0, 0, 0, red), vtx(0, 0, 0, red)},
		{vtx(-0.5, -0.5, 0, red), vtx(0, 0, 0, red), vtx(0.5, 0.5, 0, red)},
		{vtx(-0.5, 0.2, 0, red), vtx(0.5, 0.2, 0, red), vtx(0, 0.2, 0, red)},
		{Vertex{Position: mathutil.Vec4{1, 1, 0, 0}}, vtx(0, 0, 0, red), vtx(0.5, 0, 0, red)},
		{vtx(math.NaN(), 0, 0, red), vtx(0, 0, 0, red), vtx(0.5, 0, 0, red)},
	}
	for _, f := range faces {
		r.Render(f)
	}
	for i, d := range r.depth {
		if math.IsNaN(d) {
			t.Fatalf("depth[%d] is NaN", i)
		}
	}
}

func TestRenderFacesMatchesSequential(t *testing.T) {
	rng := batch.RowRand(7, 0)
	coord := func() float64 { return rng.Float64()*2.4 - 1.2 }
	var faces []Face
	for i := 0; i < 40; i++ {
		col := mathutil.Vec4{rng.Float64(), rng.Float64(), rng.Float64(), 1}
		faces = append(faces, Face{
			vtx(coord(), coord(), coord(), col),
			vtx(coord(), coord(), coord(), col),
			vtx(coord(), coord(), coord(), col),
		})
	}

	seqImg := pixbuf.New(100, 77)
	seq := New(seqImg, NewShaderProgram(nil))
	for _, f := range faces {
		seq.Render(f)
	}

	parImg := pixbuf.New(100, 77)
	par := New(parImg, NewShaderProgram(nil))
	par.Parallel.Workers = 4
	if err := par.RenderFaces(context.Background(), faces); err != nil {
		t.Fatal(err)
	}

	for i := range seqImg.Pix {
		if seqImg.Pix[i] != parImg.Pix[i] {
			t.Fatalf("pixel %d: parallel %+v, sequential %+v", i, parImg.Pix[i], seqImg.Pix[i])
		}
	}
}

func TestRenderFacesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(pixbuf.New(8, 8), NewShaderProgram(nil))
	if err := r.RenderFaces(ctx, []Face{{vtx(-1, -1, 0, red), vtx(1, -1, 0, red), vtx(0, 1, 0, red)}}); err == nil {
		t.Error("expected context error")
	}
}

func TestClearResetsBuffers(t *testing.T) {
	img := pixbuf.New(8, 8)
	r := New(img, NewShaderProgram(nil))
	r.Render(Face{vtx(-1, -1, 0, red), vtx(3, -1, 0, red), vtx(-1, 3, 0, red)})
	r.SetBackground(pixbuf.Pixel{G: 10})
	r.Clear()
	if !math.IsInf(r.Depth(3, 3), 1) {
		t.Errorf("depth after clear = %g", r.Depth(3, 3))
	}
	if img.GetPixel(3, 3) != (pixbuf.Pixel{G: 10}) {
		t.Errorf("pixel after clear = %+v", img.GetPixel(3, 3))
	}
	if !math.IsInf(r.Depth(-1, 0), 1) {
		t.Error("depth outside image should be +Inf")
	}
}

func TestSample(t *testing.T) {
	tex := pixbuf.New(2, 2)
	tex.SetPixel(0, 1, 255, 0, 0) // bottom-left in image rows
	tex.SetPixel(1, 0, 0, 255, 0) // top-right

	if got := Sample(tex, mathutil.Vec2{0, 0}); got != (mathutil.Vec4{1, 0, 0, 1}) {
		t.Errorf("uv(0,0) = %v, want red", got)
	}
	if got := Sample(tex, mathutil.Vec2{1, 1}); got != (mathutil.Vec4{0, 1, 0, 1}) {
		t.Errorf("uv(1,1) = %v, want green", got)
	}
	if got := Sample(tex, mathutil.Vec2{-3, 7}); got != (mathutil.Vec4{0, 0, 0, 1}) {
		t.Errorf("clamped uv = %v, want black top-left", got)
	}
	if got := Sample(nil, mathutil.Vec2{0.5, 0.5}); got != (mathutil.Vec4{1, 1, 1, 1}) {
		t.Errorf("nil texture = %v, want white", got)
	}
}

func TestLerpEqualWIsLinear(t *testing.T) {
	a := Vertex{Position: mathutil.Vec4{0, 0, 0, 0.5}, TexCoord: mathutil.Vec2{0, 0}}
	b := Vertex{Position: mathutil.Vec4{10, 0, 1, 0.5}, TexCoord: mathutil.Vec2{1, 2}}
	m := Lerp(a, b, 0.25)
	if math.Abs(m.TexCoord[0]-0.25) > 1e-12 || math.Abs(m.TexCoord[1]-0.5) > 1e-12 {
		t.Errorf("uv = %v", m.TexCoord)
	}
	if m.Position[0] != 2.5 || m.Position[2] != 0.25 {
		t.Errorf("position = %v", m.Position)
	}
}

func TestShade(t *testing.T) {
	l := DefaultLight()
	facing := l.Shade(mathutil.Vec4{1, 1, 1, 0})
	if math.Abs(facing-1) > 1e-12 {
		t.Errorf("facing light = %g, want 1", facing)
	}
	if away := l.Shade(mathutil.Vec4{-1, -1, -1, 0}); away != l.Ambient {
		t.Errorf("facing away = %g, want ambient", away)
	}
}
