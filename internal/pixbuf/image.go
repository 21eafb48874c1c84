// Package pixbuf provides the RGB pixel buffer shared by the rasterizer and
// the tracers.
package pixbuf

import (
	"image"
	"image/color"
)

// Pixel is one RGB sample, 0–255 per channel.
type Pixel struct {
	R, G, B uint8
}

// Image is a row-major RGB buffer. It implements image.Image so encoders
// can consume it directly.
type Image struct {
	Width  int
	Height int
	Pix    []Pixel // len = Width*Height
}

// New allocates a black image.
func New(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{
		Width:  w,
		Height: h,
		Pix:    make([]Pixel, w*h),
	}
}

func (img *Image) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.Width && y < img.Height
}

// GetPixel returns the pixel at (x, y), or black outside the buffer.
func (img *Image) GetPixel(x, y int) Pixel {
	if !img.inside(x, y) {
		return Pixel{}
	}
	return img.Pix[x+y*img.Width]
}

// SetPixel stores byte channels. Writes outside the buffer are dropped.
func (img *Image) SetPixel(x, y int, r, g, b uint8) {
	if !img.inside(x, y) {
		return
	}
	img.Pix[x+y*img.Width] = Pixel{r, g, b}
}

// SetPixelFloat stores normalized channels, clamped to [0,1] and scaled by 255.
func (img *Image) SetPixelFloat(x, y int, r, g, b float64) {
	img.SetPixel(x, y, toByte(r), toByte(g), toByte(b))
}

// Clear fills the whole buffer with c.
func (img *Image) Clear(c Pixel) {
	if len(img.Pix) == 0 {
		return
	}
	img.Pix[0] = c
	for i := 1; i < len(img.Pix); i *= 2 {
		copy(img.Pix[i:], img.Pix[:i])
	}
}

func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}

func (img *Image) ColorModel() color.Model { return color.RGBAModel }

func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.Width, img.Height) }

func (img *Image) At(x, y int) color.Color {
	p := img.GetPixel(x, y)
	return color.RGBA{p.R, p.G, p.B, 255}
}

// NRGBA copies the buffer into an opaque *image.NRGBA.
func (img *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, p := range img.Pix {
		j := i * 4
		dst.Pix[j] = p.R
		dst.Pix[j+1] = p.G
		dst.Pix[j+2] = p.B
		dst.Pix[j+3] = 255
	}
	return dst
}

// FromImage converts any decoded image. Alpha is discarded (colors are
// un-premultiplied first).
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := New(b.Dx(), b.Dy())
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < img.Height; y++ {
			off := n.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < img.Width; x++ {
				i := off + x*4
				img.Pix[x+y*img.Width] = Pixel{n.Pix[i], n.Pix[i+1], n.Pix[i+2]}
			}
		}
		return img
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Pix[x+y*img.Width] = Pixel{c.R, c.G, c.B}
		}
	}
	return img
}
