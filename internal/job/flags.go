package job

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"softrender/internal/config"
	"softrender/internal/logging"
)

// Flags are the command-line flags every tool accepts.
type Flags struct {
	ConfigFile string
	Watch      bool
	Overrides  config.Flags
}

// RegisterFlags binds the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigFile, "config", "", "Path to a .json or .toml config file")
	fs.BoolVar(&f.Watch, "watch", false, "Re-render whenever an input file changes")
	o := &f.Overrides
	fs.StringVar(&o.Output, "out", "", "Output image (.png .bmp .tga .jpg .webp)")
	fs.StringVar(&o.OutputDir, "outdir", "", "Output directory (default: renders)")
	fs.StringVar(&o.Manifest, "manifest", "", "Manifest file (default: <outdir>/manifest.json)")
	fs.IntVar(&o.Width, "width", 0, "Image width (default: 512)")
	fs.IntVar(&o.Height, "height", 0, "Image height (default: 512)")
	fs.IntVar(&o.Samples, "samples", 0, "Samples per pixel")
	fs.IntVar(&o.Depth, "depth", 0, "Path tracer bounce depth (default: 5)")
	fs.IntVar(&o.Workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	fs.Uint64Var(&o.Seed, "seed", 0, "Random seed (default: 1)")
	fs.StringVar(&o.LogLevel, "log", "", "Log level: debug, info, warn, error")
	return f
}

// Setup loads the config file if one was given, applies the flag overrides
// and builds the engine's logger on stderr.
func (f *Flags) Setup(engine string) (config.Config, *log.Logger, error) {
	var cfg config.Config
	if f.ConfigFile != "" {
		var err error
		cfg, err = config.Load(f.ConfigFile)
		if err != nil {
			return cfg, nil, err
		}
	}
	cfg.Resolve(engine, f.Overrides)

	logger, err := logging.New(os.Stderr, cfg.LogLevel, engine)
	if err != nil {
		return cfg, nil, fmt.Errorf("%s: %w", engine, err)
	}
	return cfg, logger, nil
}
