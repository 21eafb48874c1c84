//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Render mg.Namespace

// Renders both Cornell box presets and the textured quad into renders/.
func (Render) Box() error {
	mg.Deps(Build.Tools)

	jobs := [][]string{
		{"raster", "-supersample", "2", "-light"},
		{"raycast", "-preset", "raycast-box"},
		{"pathtrace", "-preset", "raytrace-box", "-samples", "64"},
	}
	for _, job := range jobs {
		bin := filepath.Join("bin", job[0])
		if _, err := executeCmd(bin, withArgs(job[1:]...), withStream()); err != nil {
			return err
		}
	}
	fmt.Println("Renders written to renders/")
	return nil
}

// Renders the path traced box from inside the given directory, so its
// relative config paths resolve.
func (Render) Config(dir string) error {
	mg.Deps(Build.Tools)
	bin, err := filepath.Abs(filepath.Join("bin", "pathtrace"))
	if err != nil {
		return err
	}
	_, err = executeCmd(bin, withArgs("-config", "render.toml"), withDir(dir), withStream())
	return err
}
