// Package texture loads texture images and caches them by asset path.
package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"softrender/internal/pixbuf"
)

// decoders picks the decoder by extension. TGA has no magic number, so
// sniffing with image.Decode would route other formats to it.
var decoders = map[string]func(r io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".tga":  tga.Decode,
}

// Decode reads an image in the format named by ext (".png", ".jpg",
// ".jpeg", ".bmp" or ".tga", any case).
func Decode(r io.Reader, ext string) (image.Image, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("texture: unknown extension %q", ext)
	}
	return decode(r)
}

// Load decodes a BMP, TGA, PNG or JPEG file. Alpha is dropped.
func Load(path string) (*pixbuf.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return pixbuf.FromImage(img), nil
}
