package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/platform"
)

const PackageScheme = "package://"

var (
	packageRe = regexp.MustCompile(`^package://(\w+)/`)

	ErrMalformedPackageURI = errors.New("malformed package uri")
)

// Locator maps a package identifier to its install directory.
type Locator interface {
	Find(pkg string) (string, error)
}

// Resolver turns geometry references into filesystem paths.
type Resolver struct {
	locator Locator
	strict  bool
}

func NewResolver(locator Locator) *Resolver {
	return &Resolver{locator: locator}
}

// SetStrict makes an unknown package abort the process instead of failing
// the single reference.
func (r *Resolver) SetStrict(strict bool) {
	r.strict = strict
}

// Resolve expands package:// references through the locator and joins every
// other filename onto baseDir. The result is not checked for existence.
func (r *Resolver) Resolve(filename string, baseDir string) (string, error) {
	if !strings.HasPrefix(filename, PackageScheme) {
		return filepath.Join(baseDir, filename), nil
	}

	m := packageRe.FindStringSubmatch(filename)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedPackageURI, filename)
	}
	pkg := m[1]

	dir, err := r.locator.Find(pkg)
	if err != nil {
		if r.strict {
			core.LogFatal("failed to find ros package %s: %s", pkg, err)
		}
		return "", err
	}
	rest := filename[len(m[0]):]
	return strings.TrimRight(dir, "/") + "/" + rest, nil
}

// RosPackLocator asks `rospack find` for package directories and remembers
// the answers for the life of the process.
type RosPackLocator struct {
	command platform.Command
	runner  platform.Runner
	found   map[string]string
}

func NewRosPackLocator(command platform.Command, runner platform.Runner) *RosPackLocator {
	return &RosPackLocator{
		command: command,
		runner:  runner,
		found:   map[string]string{},
	}
}

func (l *RosPackLocator) Find(pkg string) (string, error) {
	if dir, ok := l.found[pkg]; ok {
		return dir, nil
	}

	res, err := l.command.Run(l.runner, pkg)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrPackageNotFound, pkg, err)
	}
	dir := strings.TrimSpace(res.Stdout)
	if !res.Success() || dir == "" {
		return "", fmt.Errorf("%w: %s", core.ErrPackageNotFound, pkg)
	}

	l.found[pkg] = dir
	return dir, nil
}

// StaticLocator answers from a fixed table, for setups without a ROS
// environment.
type StaticLocator map[string]string

func (s StaticLocator) Find(pkg string) (string, error) {
	if dir, ok := s[pkg]; ok {
		return dir, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrPackageNotFound, pkg)
}
