package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelative(t *testing.T) {
	r := NewResolver(StaticLocator{})
	input := "/home/user/robo.urdf"

	got, err := r.Resolve("mesh/aaa.obj", filepath.Dir(input))
	require.NoError(t, err)
	assert.Equal(t, "/home/user/mesh/aaa.obj", got)

	tests := []struct {
		base, file, want string
	}{
		{"/opt/robot", "meshes/base.stl", "/opt/robot/meshes/base.stl"},
		{"/opt/robot/", "./meshes/base.stl", "/opt/robot/meshes/base.stl"},
		{"/opt/robot", "../shared/link.dae", "/opt/shared/link.dae"},
		{"relative/dir", "a.obj", "relative/dir/a.obj"},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.file, tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolvePackage(t *testing.T) {
	locator := StaticLocator{
		"arm_description": "/opt/ros/share/arm_description",
		"gripper":         "/opt/ros/share/gripper/",
	}
	r := NewResolver(locator)

	tests := []struct {
		file, want string
	}{
		{"package://arm_description/meshes/base.stl", "/opt/ros/share/arm_description/meshes/base.stl"},
		{"package://gripper/meshes/finger.dae", "/opt/ros/share/gripper/meshes/finger.dae"},
		{"package://gripper/a/b/c.obj", "/opt/ros/share/gripper/a/b/c.obj"},
	}
	for _, tt := range tests {
		for _, base := range []string{"/home/user", "/somewhere/else"} {
			got, err := r.Resolve(tt.file, base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestResolvePackageErrors(t *testing.T) {
	r := NewResolver(StaticLocator{})

	_, err := r.Resolve("package://missing_pkg/mesh.stl", "/base")
	assert.True(t, errors.Is(err, core.ErrPackageNotFound))
	assert.Contains(t, err.Error(), "missing_pkg")

	_, err = r.Resolve("package://no-slash", "/base")
	assert.True(t, errors.Is(err, ErrMalformedPackageURI))
}

func TestRosPackLocator(t *testing.T) {
	fake := platform.NewFakeRunner()
	fake.Set("rospack find arm", &platform.Result{Stdout: "/opt/ros/arm\n"})
	fake.Set("rospack find broken", &platform.Result{ExitCode: 1, Stderr: "[rospack] Error: package 'broken' not found"})

	cmd, err := platform.ParseCommand("rospack find")
	require.NoError(t, err)
	locator := NewRosPackLocator(cmd, fake)
	r := NewResolver(locator)

	got, err := r.Resolve("package://arm/meshes/base.stl", "/ignored")
	require.NoError(t, err)
	assert.Equal(t, "/opt/ros/arm/meshes/base.stl", got)

	// second lookup of the same package is memoized
	_, err = r.Resolve("package://arm/meshes/link1.stl", "/ignored")
	require.NoError(t, err)
	assert.Len(t, fake.Calls, 1)

	_, err = locator.Find("broken")
	assert.True(t, errors.Is(err, core.ErrPackageNotFound))
	assert.Contains(t, err.Error(), "broken")
}
