// Package job runs one render for a command-line tool: it saves the image,
// stamps the optional caption, appends a manifest entry and, in watch mode,
// repeats all of it whenever an input file changes.
package job

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"softrender/internal/batch"
	"softrender/internal/config"
	"softrender/internal/export"
	"softrender/internal/watch"
)

// debounce is how long input files must stay quiet before a re-render.
const debounce = 200 * time.Millisecond

// RenderFunc produces the final image for cfg.
type RenderFunc func(ctx context.Context, cfg config.Config) (*image.NRGBA, error)

// Job ties a renderer to its resolved configuration.
type Job struct {
	Engine string
	Config config.Config
	Logger *log.Logger
	Render RenderFunc

	// Inputs are the files watched in watch mode.
	Inputs []string
	// Changed, if set, is called with each changed input before re-rendering.
	Changed func(path string)
}

// Once renders a single image and records it. The manifest entry is returned
// even when only the manifest write failed.
func (j *Job) Once(ctx context.Context) (batch.ManifestEntry, error) {
	cfg := j.Config
	entry := batch.NewEntry(j.Engine)
	entry.Output = cfg.OutputPath()
	entry.Width = cfg.Width
	entry.Height = cfg.Height
	entry.Samples = cfg.Samples
	entry.Seed = cfg.Seed
	if j.Engine == "pathtrace" {
		entry.Depth = cfg.Depth
	}

	logger := j.Logger.With("job", entry.ID)
	logger.Info("render start", "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "samples", cfg.Samples, "workers", cfg.Workers)

	start := time.Now()
	img, err := j.Render(ctx, cfg)
	if err != nil {
		return entry, fmt.Errorf("%s: render: %w", j.Engine, err)
	}
	elapsed := time.Since(start)
	entry.DurationMS = elapsed.Milliseconds()

	if cfg.CaptionFont != "" {
		text := fmt.Sprintf("%s %dx%d %d spp %s", j.Engine, cfg.Width, cfg.Height, cfg.Samples, elapsed.Round(time.Millisecond))
		if err := export.Caption(img, cfg.CaptionFont, text); err != nil {
			logger.Warn("caption skipped", "err", err)
		}
	}

	if err := export.Save(entry.Output, img); err != nil {
		return entry, err
	}
	logger.Info("render done", "output", entry.Output, "elapsed", elapsed.Round(time.Millisecond))

	if cfg.Manifest != "" {
		if err := batch.WriteManifest(cfg.Manifest, entry); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// Watch renders once, then again after every change to an input file, until
// ctx is done. Render errors while watching are logged, not returned, so a
// half-saved scene file does not end the session.
func (j *Job) Watch(ctx context.Context) error {
	if _, err := j.Once(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		j.Logger.Error("render failed", "err", err)
	}
	j.Logger.Info("watching", "files", j.Inputs)
	return watch.Files(ctx, j.Inputs, debounce, j.Logger, func(path string) {
		if j.Changed != nil {
			j.Changed(path)
		}
		if _, err := j.Once(ctx); err != nil && ctx.Err() == nil {
			j.Logger.Error("render failed", "err", err)
		}
	})
}
