// Command pathtrace renders a sphere scene with the Monte Carlo path tracer.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"

	"softrender/internal/config"
	"softrender/internal/job"
	"softrender/internal/pixbuf"
	"softrender/internal/scene"
	"softrender/internal/tracer"
)

const engine = "pathtrace"

func main() {
	flags := job.RegisterFlags(flag.CommandLine)
	sceneFile := flag.String("scene", "", "Scene file (.json or .toml)")
	preset := flag.String("preset", "", fmt.Sprintf("Built-in scene %v (default: raytrace-box)", scene.Presets()))
	dump := flag.String("dump", "", "Write the resolved scene to this file and exit")
	flag.Parse()

	flags.Overrides.Scene = *sceneFile
	flags.Overrides.Preset = *preset
	cfg, logger, err := flags.Setup(engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump != "" {
		sc, err := loadScene(cfg)
		if err == nil {
			err = scene.Save(*dump, sc)
		}
		if err != nil {
			logger.Fatal("dump failed", "err", err)
		}
		logger.Info("scene written", "file", *dump)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	j := &job.Job{
		Engine: engine,
		Config: cfg,
		Logger: logger,
		Inputs: []string{cfg.Scene},
		Render: func(ctx context.Context, cfg config.Config) (*image.NRGBA, error) {
			sc, err := loadScene(cfg)
			if err != nil {
				return nil, err
			}
			logger.Debug("scene", "name", sc.Name, "spheres", len(sc.Spheres), "depth", cfg.Depth)
			img := pixbuf.New(cfg.Width, cfg.Height)
			opts := tracer.Options{Workers: cfg.Workers, Seed: cfg.Seed, Logger: logger}
			if err := sc.PathWorld().Render(ctx, img, cfg.Samples, cfg.Depth, opts); err != nil {
				return nil, err
			}
			return img.NRGBA(), nil
		},
	}

	if flags.Watch {
		err = j.Watch(ctx)
	} else {
		_, err = j.Once(ctx)
	}
	if err != nil {
		logger.Error("failed", "err", err)
		os.Exit(1)
	}
}

// loadScene reads cfg.Scene, falling back to a preset.
func loadScene(cfg config.Config) (*scene.Scene, error) {
	if cfg.Scene != "" {
		return scene.Load(cfg.Scene)
	}
	name := cfg.Preset
	if name == "" {
		name = "raytrace-box"
	}
	return scene.Preset(name)
}
