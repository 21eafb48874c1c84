// Command raster renders a textured OBJ mesh with the software rasterizer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"softrender/internal/batch"
	"softrender/internal/config"
	"softrender/internal/job"
	"softrender/internal/mathutil"
	"softrender/internal/mesh"
	"softrender/internal/pixbuf"
	"softrender/internal/postprocess"
	"softrender/internal/raster"
	"softrender/internal/texture"
)

const engine = "raster"

// quadScale keeps the fallback quad in front of the near plane.
const quadScale = 0.4

func main() {
	flags := job.RegisterFlags(flag.CommandLine)
	meshFile := flag.String("mesh", "", "Wavefront OBJ file (default: a textured quad)")
	texFile := flag.String("texture", "", "Texture image (.bmp .tga .png .jpg); default: <texture_dir>/<mesh name>")
	scale := flag.Float64("scale", 0, "Uniform model scale (default: 1, or 0.4 for the quad)")
	lit := flag.Bool("light", false, "Enable the directional light")
	supersample := flag.Int("supersample", 0, "Render at N× size and downsample (default: 1)")
	flag.Parse()

	flags.Overrides.Mesh = *meshFile
	flags.Overrides.Texture = *texFile
	cfg, logger, err := flags.Setup(engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *supersample > 0 {
		cfg.Supersample = *supersample
	}
	// Watch events carry absolute paths; key the cache the same way.
	if cfg.Texture != "" {
		if abs, err := filepath.Abs(cfg.Texture); err == nil {
			cfg.Texture = abs
		}
	}

	var index *texture.Index
	if cfg.TextureDir != "" {
		index = texture.BuildIndex(cfg.TextureDir)
		logger.Info("texture index", "dir", cfg.TextureDir, "textures", index.Len())
	}
	textures := texture.NewCache(index)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	j := &job.Job{
		Engine:  engine,
		Config:  cfg,
		Logger:  logger,
		Inputs:  []string{cfg.Mesh, cfg.Texture},
		Changed: textures.Forget,
		Render: func(ctx context.Context, cfg config.Config) (*image.NRGBA, error) {
			m, err := loadMesh(cfg.Mesh)
			if err != nil {
				return nil, err
			}
			tex, err := loadTexture(textures, cfg, logger)
			if err != nil {
				return nil, err
			}

			s := *scale
			if s <= 0 {
				s = 1
				if cfg.Mesh == "" {
					s = quadScale
				}
			}
			program := setupProgram(cfg.Width, cfg.Height, s, tex)
			if *lit {
				program.Light = raster.DefaultLight()
			}

			w, h := cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample
			img := pixbuf.New(w, h)
			r := raster.New(img, program)
			r.Parallel = batch.Config{Workers: cfg.Workers, Logger: logger}

			faces := m.Faces(mathutil.Vec4{1, 1, 1, 1})
			logger.Debug("mesh", "faces", len(faces), "supersample", cfg.Supersample)
			if err := r.RenderFaces(ctx, faces); err != nil {
				return nil, err
			}
			return postprocess.Downsample(img.NRGBA(), cfg.Width, cfg.Height), nil
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

// setupProgram places the model in front of a 60° perspective camera
// looking at the origin from above and to the front.
func setupProgram(width, height int, scale float64, tex *pixbuf.Image) *raster.ShaderProgram {
	p := raster.NewShaderProgram(tex)
	p.Model = mathutil.Mat4Mul(
		mathutil.Orientation(mathutil.Vec3{0, 0.4, 0.8}),
		mathutil.ScaleMat(mathutil.Vec3{scale, scale, scale}),
	)
	p.View = mathutil.LookAt(mathutil.Vec3{0, 0.7, 0.7}, mathutil.Vec3{}, mathutil.Vec3{0.5, 0.5, 0})
	p.Projection = mathutil.Perspective(mathutil.Deg2Rad(60), float64(width)/float64(height), 1, 15)
	return p
}

func loadMesh(path string) (*mesh.Mesh, error) {
	if path == "" {
		return mesh.Quad(), nil
	}
	return mesh.LoadOBJ(path)
}

// loadTexture returns the explicit texture, else the indexed texture named
// after the mesh, else nil (white).
func loadTexture(textures *texture.Cache, cfg config.Config, logger *log.Logger) (*pixbuf.Image, error) {
	if cfg.Texture != "" {
		return textures.Get(cfg.Texture)
	}
	if cfg.Mesh == "" {
		return nil, nil
	}
	name := strings.TrimSuffix(filepath.Base(cfg.Mesh), filepath.Ext(cfg.Mesh))
	tex, err := textures.Resolve(name)
	if errors.Is(err, texture.ErrNotFound) {
		logger.Warn("no texture for mesh, rendering untextured", "mesh", name)
		return nil, nil
	}
	return tex, err
}
