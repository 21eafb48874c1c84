// Package raster is a software triangle rasterizer with programmable vertex
// and fragment stages, a depth buffer and perspective-correct texturing.
package raster

import (
	"context"
	"math"

	"softrender/internal/batch"
	"softrender/internal/pixbuf"
)

// bandRows is the height of the horizontal strips RenderFaces hands to workers.
const bandRows = 16

// DefaultBackground is the clear color.
var DefaultBackground = pixbuf.Pixel{R: 128, G: 128, B: 128}

// Rasterizer renders faces into an image. Triangles are not culled or
// clipped; faces with a projected vertex that is NaN, infinite or absurdly
// far off-screen are skipped.
type Rasterizer struct {
	Parallel batch.Config

	program    Program
	image      *pixbuf.Image
	depth      []float64 // per pixel, +Inf after Clear
	background pixbuf.Pixel
}

// band is a half-open row range [y0, y1) owned by one worker.
type band struct {
	y0, y1 int
}

// New binds a rasterizer to an image and program and clears both buffers.
func New(img *pixbuf.Image, program Program) *Rasterizer {
	r := &Rasterizer{
		program:    program,
		image:      img,
		depth:      make([]float64, img.Width*img.Height),
		background: DefaultBackground,
	}
	r.Clear()
	return r
}

// SetBackground changes the color used by Clear.
func (r *Rasterizer) SetBackground(c pixbuf.Pixel) {
	r.background = c
}

// Clear resets depth to +Inf and the image to the background color. Call it
// once per frame before rendering.
func (r *Rasterizer) Clear() {
	inf := math.Inf(1)
	for i := range r.depth {
		r.depth[i] = inf
	}
	r.image.Clear(r.background)
}

// Depth returns the stored depth at (x, y), +Inf outside the image.
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || y < 0 || x >= r.image.Width || y >= r.image.Height {
		return math.Inf(1)
	}
	return r.depth[x+y*r.image.Width]
}

// ToViewport divides by w and maps NDC to pixels with Y pointing down.
// Position.W of the result is 1/w, used for perspective correction.
func (r *Rasterizer) ToViewport(v Vertex) Vertex {
	invW := 1 / v.Position[3]
	ndc := v.Position.Scale(invW)
	v.Position[0] = (ndc[0] + 1) * float64(r.image.Width) / 2
	v.Position[1] = (1 - ndc[1]) * float64(r.image.Height) / 2
	v.Position[2] = ndc[2]
	v.Position[3] = invW
	return v
}

func (r *Rasterizer) transform(face Face) [3]Vertex {
	return [3]Vertex{
		r.ToViewport(r.program.VertexShader(face.V0)),
		r.ToViewport(r.program.VertexShader(face.V1)),
		r.ToViewport(r.program.VertexShader(face.V2)),
	}
}

// Render draws a single face on the calling goroutine.
func (r *Rasterizer) Render(face Face) {
	r.draw(r.transform(face), band{0, r.image.Height})
}

// RenderFaces draws faces in order. Vertex shading runs in parallel per
// face, then the image is split into horizontal bands and each worker draws
// every face clipped to its own band, so no pixel or depth cell is shared.
func (r *Rasterizer) RenderFaces(ctx context.Context, faces []Face) error {
	tris := make([][3]Vertex, len(faces))
	cfg := r.Parallel
	cfg.Label = "vertex"
	if err := batch.Run(ctx, cfg, len(faces), func(i int) {
		tris[i] = r.transform(faces[i])
	}); err != nil {
		return err
	}

	var bands []band
	for y := 0; y < r.image.Height; y += bandRows {
		bands = append(bands, band{y, min(y+bandRows, r.image.Height)})
	}
	cfg.Label = "raster"
	return batch.Run(ctx, cfg, len(bands), func(i int) {
		for _, tri := range tris {
			r.draw(tri, bands[i])
		}
	})
}

// maxCoord bounds viewport coordinates; beyond it float64 steps exceed one
// pixel and scanline walking stops making progress.
const maxCoord = 1 << 24

func finite(v Vertex) bool {
	x, y := v.Position[0], v.Position[1]
	return math.Abs(x) < maxCoord && math.Abs(y) < maxCoord
}

// draw scan-converts a viewport triangle by splitting it at the middle
// vertex into a flat-bottom and a flat-top half.
func (r *Rasterizer) draw(tri [3]Vertex, b band) {
	t0, t1, t2 := tri[0], tri[1], tri[2]
	if !finite(t0) || !finite(t1) || !finite(t2) {
		return
	}

	// Sort by ascending Y
	if t0.Position[1] > t1.Position[1] {
		t0, t1 = t1, t0
	}
	if t0.Position[1] > t2.Position[1] {
		t0, t2 = t2, t0
	}
	if t1.Position[1] > t2.Position[1] {
		t1, t2 = t2, t1
	}

	if t2.Position[1] < float64(b.y0)-1 || t0.Position[1] >= float64(b.y1) {
		return
	}

	switch {
	case t1.Position[1] == t0.Position[1]:
		r.fillBottom(t0, t1, t2, b)
	case t1.Position[1] == t2.Position[1]:
		r.fillTop(t0, t1, t2, b)
	default:
		t := param(t1.Position[1]-t0.Position[1], t2.Position[1]-t0.Position[1])
		tm := Lerp(t0, t2, t)
		r.fillTop(t0, tm, t1, b)
		r.fillBottom(t1, tm, t2, b)
	}
}

// param returns num/den, or 0 when the span is empty.
func param(num, den float64) float64 {
	if !(den > 0) {
		return 0
	}
	return num / den
}

// rows returns the first and last scanline offsets from top that can land in
// band b. Offsets outside are skipped; truncation toward zero means a
// margin of one row on each side.
func rows(top, bottom float64, b band) (first, last int) {
	last = int(math.Min(bottom-top, float64(b.y1)-top+1))
	if skip := math.Floor(float64(b.y0) - top - 1); skip > 0 {
		first = int(skip)
	}
	return first, last
}

// fillTop fills a triangle with apex v0 and flat bottom edge v1-v2.
func (r *Rasterizer) fillTop(v0, v1, v2 Vertex, b band) {
	top, bottom := v0.Position[1], v2.Position[1]
	first, last := rows(top, bottom, b)
	for y := first; y <= last && top+float64(y) <= bottom; y++ {
		yt := param(float64(y), bottom-top)
		r.span(int(top+float64(y)), Lerp(v0, v1, yt), Lerp(v0, v2, yt), b)
	}
}

// fillBottom fills a triangle with flat top edge v0-v1 and apex v2.
func (r *Rasterizer) fillBottom(v0, v1, v2 Vertex, b band) {
	top, bottom := v0.Position[1], v2.Position[1]
	first, last := rows(top, bottom, b)
	for y := first; y <= last && top+float64(y) <= bottom; y++ {
		yt := param(float64(y), bottom-top)
		r.span(int(top+float64(y)), Lerp(v0, v2, yt), Lerp(v1, v2, yt), b)
	}
}

// span walks one scanline from the left to the right edge. Pixel
// coordinates come from the loop counters; interpolated positions only
// supply depth and attributes, since rounding in Lerp could skip a row or
// column.
func (r *Rasterizer) span(row int, a, c Vertex, b band) {
	if row < b.y0 || row >= b.y1 {
		return
	}
	if a.Position[0] > c.Position[0] {
		a, c = c, a
	}
	left, right := a.Position[0], c.Position[0]

	// Columns left of -1 or right of the image truncate outside it.
	first := 0
	if skip := math.Ceil(-1 - left); skip > 0 {
		first = int(skip)
	}
	limit := float64(r.image.Width)
	for x := first; left+float64(x) <= right && left+float64(x) < limit; x++ {
		xt := param(float64(x), right-left)
		r.setFragment(int(left+float64(x)), row, Lerp(a, c, xt))
	}
}

// setFragment depth-tests and shades pixel (x, y).
func (r *Rasterizer) setFragment(x, y int, varying Vertex) {
	if x < 0 || y < 0 || x >= r.image.Width || y >= r.image.Height {
		return
	}

	idx := x + y*r.image.Width
	z := varying.Position[2]
	if !(z < r.depth[idx]) {
		return
	}
	r.depth[idx] = z

	c := r.program.FragmentShader(varying).Clamp01()
	r.image.SetPixelFloat(x, y, c[0], c[1], c[2])
}
