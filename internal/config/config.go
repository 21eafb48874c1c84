// Package config loads render settings from JSON or TOML files and merges
// them with command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths; relative ones resolve against BaseDir
	BaseDir     string `json:"base_dir" toml:"base_dir"`
	Scene       string `json:"scene" toml:"scene"`
	Preset      string `json:"preset" toml:"preset"`
	Mesh        string `json:"mesh" toml:"mesh"`
	Texture     string `json:"texture" toml:"texture"`
	TextureDir  string `json:"texture_dir" toml:"texture_dir"`
	OutputDir   string `json:"output_dir" toml:"output_dir"`
	Output      string `json:"output" toml:"output"`
	Manifest    string `json:"manifest" toml:"manifest"`
	CaptionFont string `json:"caption_font" toml:"caption_font"`

	// Render settings
	Width       int    `json:"width" toml:"width"`
	Height      int    `json:"height" toml:"height"`
	Samples     int    `json:"samples" toml:"samples"`
	Depth       int    `json:"depth" toml:"depth"`
	Supersample int    `json:"supersample" toml:"supersample"`
	Workers     int    `json:"workers" toml:"workers"`
	Seed        uint64 `json:"seed" toml:"seed"`
	LogLevel    string `json:"log_level" toml:"log_level"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene     string
	Preset    string
	Mesh      string
	Texture   string
	OutputDir string
	Output    string
	Manifest  string
	Width     int
	Height    int
	Samples   int
	Depth     int
	Workers   int
	Seed      uint64
	LogLevel  string
}

// defaultSamples per engine, matching the demo renders.
var defaultSamples = map[string]int{
	"raster":    1,
	"raycast":   4,
	"pathtrace": 32,
}

// Load reads a config file, TOML when the extension is .toml and JSON
// otherwise. Fields not set in the file keep their zero values. BaseDir
// defaults to the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Resolve joins relative file paths with BaseDir, applies non-zero flags
// and fills the remaining fields with defaults for engine.
func (c *Config) Resolve(engine string, flags Flags) {
	// Paths from the file are relative to BaseDir
	if c.BaseDir != "" {
		for _, p := range []*string{&c.Scene, &c.Mesh, &c.Texture, &c.TextureDir, &c.OutputDir, &c.Manifest, &c.CaptionFont} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(c.BaseDir, *p)
			}
		}
	}

	// CLI flags override config file
	override(&c.Scene, flags.Scene)
	override(&c.Preset, flags.Preset)
	override(&c.Mesh, flags.Mesh)
	override(&c.Texture, flags.Texture)
	override(&c.OutputDir, flags.OutputDir)
	override(&c.Output, flags.Output)
	override(&c.Manifest, flags.Manifest)
	override(&c.LogLevel, flags.LogLevel)
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Samples > 0 {
		c.Samples = flags.Samples
	}
	if flags.Depth > 0 {
		c.Depth = flags.Depth
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Samples <= 0 {
		c.Samples = defaultSamples[engine]
		if c.Samples == 0 {
			c.Samples = 1
		}
	}
	if c.Depth <= 0 {
		c.Depth = 5
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Output == "" {
		c.Output = engine + ".png"
	}
	if c.Manifest == "" {
		c.Manifest = filepath.Join(c.OutputDir, "manifest.json")
	}
}

// OutputPath is the full path of the rendered image.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.OutputDir, c.Output)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
