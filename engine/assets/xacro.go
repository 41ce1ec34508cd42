package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/platform"
)

const (
	MacroExtension = ".xacro"
	PlainExtension = ".urdf"
)

var ErrNoExtension = errors.New("description path has no extension")

// Preprocessor expands xacro descriptions into plain URDF files under a
// cache directory. Every call reconverts; nothing is reused between runs.
type Preprocessor struct {
	cacheDir string
	command  platform.Command
	runner   platform.Runner
}

func NewPreprocessor(cacheDir string, command platform.Command, runner platform.Runner) *Preprocessor {
	return &Preprocessor{
		cacheDir: cacheDir,
		command:  command,
		runner:   runner,
	}
}

// IsMacroForm reports whether path must be expanded before parsing.
func IsMacroForm(path string) bool {
	return filepath.Ext(path) == MacroExtension
}

// CachePath mirrors the absolute input path under the cache directory, with
// the extension swapped to the plain form.
func (p *Preprocessor) CachePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	plain := strings.TrimSuffix(abs, filepath.Ext(abs)) + PlainExtension
	return filepath.Join(p.cacheDir, plain), nil
}

// Prepare returns the path of a plain description for input, converting it
// first when it is in macro form.
func (p *Preprocessor) Prepare(input string) (string, error) {
	if filepath.Ext(input) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoExtension, input)
	}
	if !IsMacroForm(input) {
		return input, nil
	}
	target, err := p.CachePath(input)
	if err != nil {
		return "", err
	}
	if err := p.Convert(input, target); err != nil {
		return "", err
	}
	return target, nil
}

// Convert runs the macro tool to write target from source.
func (p *Preprocessor) Convert(source, target string) error {
	if err := createParentDir(target); err != nil {
		return err
	}
	// relative includes resolve against the directory of source
	res, err := p.command.RunIn(p.runner, filepath.Dir(source), source, "-o", target)
	if err != nil {
		core.LogError("failed to execute %s: %s", p.command, err)
		return fmt.Errorf("%w: %s", core.ErrConversionFailed, source)
	}
	if !res.Success() {
		core.LogError("%s", res.Stderr)
		return fmt.Errorf("%w: %s", core.ErrConversionFailed, source)
	}
	core.LogInfo("converted %s to %s", source, target)
	return nil
}

func createParentDir(path string) error {
	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return nil
	}
	core.LogInfo("creating dir %s", dir)
	return os.MkdirAll(dir, 0o755)
}
