package tracer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"softrender/internal/batch"
	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// Options control a render run.
type Options struct {
	Workers int    // <= 0 means runtime.NumCPU()
	Seed    uint64 // same seed, same image, for any worker count
	Logger  *log.Logger
}

// shader returns the radiance carried back along one camera ray.
type shader func(ray Ray, rng Rand) mathutil.Vec3

// radiance averages samples jittered rays per pixel. Rows are independent
// work items, each with its own generator.
func radiance(ctx context.Context, cam Camera, width, height, samples int, opts Options, label string, shade shader) ([]mathutil.Vec3, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tracer: invalid image size %dx%d", width, height)
	}
	if samples < 1 {
		samples = 1
	}

	out := make([]mathutil.Vec3, width*height)
	cfg := batch.Config{Workers: opts.Workers, Label: label, Logger: opts.Logger}
	err := batch.Run(ctx, cfg, height, func(y int) {
		rng := batch.RowRand(opts.Seed, y)
		row := out[y*width : (y+1)*width]
		for x := range row {
			var color mathutil.Vec3
			for i := 0; i < samples; i++ {
				color = color.Add(shade(cam.GenerateRay(x, y, width, height, rng), rng))
			}
			row[x] = color.Scale(1 / float64(samples))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// store writes radiance into img, clamping each channel to [0, 1].
func store(img *pixbuf.Image, rad []mathutil.Vec3) {
	for i, c := range rad {
		img.SetPixelFloat(i%img.Width, i/img.Width, c[0], c[1], c[2])
	}
}
