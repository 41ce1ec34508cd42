//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the viewer on $URDF (xacro files are expanded first).
func (Run) Viewer() error {
	input := os.Getenv("URDF")
	if input == "" {
		return fmt.Errorf("set URDF to the robot description to show")
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", ".", input), cgoEnv, withStream()); err != nil {
		return err
	}
	return nil
}

// Renders $URDF for a few frames without a window.
func (Run) Headless() error {
	input := os.Getenv("URDF")
	if input == "" {
		return fmt.Errorf("set URDF to the robot description to show")
	}
	if _, err := executeCmd("go", withArgs("run", ".", "--headless-frames", "120", input), cgoEnv, withStream()); err != nil {
		return err
	}
	return nil
}
