// Package export writes rendered images to disk.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for an output extension with no encoder.
var ErrUnknownFormat = errors.New("export: unknown image format")

var encoders = map[string]func(w io.Writer, img image.Image) error{
	".png": png.Encode,
	".bmp": bmp.Encode,
	".tga": tga.Encode,
	".jpg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	},
	".webp": func(w io.Writer, img image.Image) error {
		return nativewebp.Encode(w, img, nil)
	},
}

// Formats lists the supported extensions.
func Formats() []string {
	return []string{".bmp", ".jpg", ".png", ".tga", ".webp"}
}

// Save encodes img in the format named by the extension of path, creating
// parent directories as needed.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	encode, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := encode(w, img); err != nil {
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}
