package export

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"

	"softrender/internal/texture"
)

// captionMargin is the distance in pixels from the lower-left corner.
const captionMargin = 4

// Caption draws text in the lower-left corner of dst with an AngelCode
// BMFont bitmap font. Page sheets are decoded by file extension.
func Caption(dst draw.Image, fontPath, text string) error {
	font, err := loadFont(fontPath)
	if err != nil {
		return err
	}
	common := font.Descriptor.Common
	b := dst.Bounds()
	// DrawText positions the baseline.
	pos := image.Pt(b.Min.X+captionMargin, b.Max.Y-captionMargin-(common.LineHeight-common.Base))
	font.DrawText(dst, pos, text)
	return nil
}

func loadFont(path string) (*bmfont.BitmapFont, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open font %s: %w", path, err)
	}
	defer f.Close()

	desc, err := bmfont.ReadDescriptor(f)
	if err != nil {
		return nil, fmt.Errorf("export: read font %s: %w", path, err)
	}

	n := 0
	for id := range desc.Pages {
		n = max(n, id+1)
	}
	sheets := make(map[int]image.Image, n)
	for id, page := range desc.Pages {
		sheets[id], err = loadPage(filepath.Join(filepath.Dir(path), page.File))
		if err != nil {
			return nil, err
		}
	}
	return &bmfont.BitmapFont{Descriptor: desc, PageSheets: sheets}, nil
}

func loadPage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open font page %s: %w", path, err)
	}
	defer f.Close()

	img, err := texture.Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("export: decode font page %s: %w", path, err)
	}
	return img, nil
}
