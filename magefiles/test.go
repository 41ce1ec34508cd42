//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), cgoEnv, withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests that need no window or external tools.
func (Test) Short() error {
	if _, err := executeCmd("go", withArgs("test", "-short", "./engine/..."), withStream()); err != nil {
		return err
	}
	return nil
}
