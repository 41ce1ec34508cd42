//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod tidy and then builds the urdfviz binary into bin/.
func (Build) Binary() error {
	mg.Deps(goTidy)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/urdfviz", "."), cgoEnv, withStream()); err != nil {
		return err
	}
	return nil
}
