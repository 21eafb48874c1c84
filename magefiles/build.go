//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// tools are the commands under cmd/.
var tools = []string{"raster", "raycast", "pathtrace"}

type Build mg.Namespace

// Builds every command into bin/.
func (Build) Tools() error {
	for _, tool := range tools {
		out := filepath.Join("bin", tool)
		if _, err := executeCmd("go", withArgs("build", "-o", out, "./cmd/"+tool), withStream()); err != nil {
			return err
		}
	}
	return nil
}

type Test mg.Namespace

// Runs vet and the full test suite.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs the tests without the slow convergence checks.
func (Test) Short() error {
	_, err := executeCmd("go", withArgs("test", "-short", "./..."), withStream())
	return err
}
