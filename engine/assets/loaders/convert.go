package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/platform"
)

// ConvertImporter handles formats no Go importer reads (collada, ply, ...)
// by running an external converter into an obj file under the cache
// directory and importing that.
type ConvertImporter struct {
	cacheDir string
	command  platform.Command
	runner   platform.Runner
	next     Importer
}

func NewConvertImporter(cacheDir string, command platform.Command, runner platform.Runner, next Importer) *ConvertImporter {
	return &ConvertImporter{
		cacheDir: cacheDir,
		command:  command,
		runner:   runner,
		next:     next,
	}
}

// Target is the obj file written for source.
func (ci *ConvertImporter) Target(source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", err
	}
	// keep the original extension in the name so a.dae and a.ply do not collide
	name := strings.TrimSuffix(abs, filepath.Ext(abs)) + "_" + strings.TrimPrefix(filepath.Ext(abs), ".") + ".obj"
	return filepath.Join(ci.cacheDir, "meshes", name), nil
}

func (ci *ConvertImporter) Import(path string, options ImportOptions) ([]RawMesh, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	target, err := ci.Target(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	args := []string{path, target}
	if options.PreTransformVertices {
		args = append(args, "-ptv")
	}
	res, err := ci.command.Run(ci.runner, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrConversionFailed, path, err)
	}
	if !res.Success() {
		core.LogError("%s", res.Stderr)
		return nil, fmt.Errorf("%w: %s", core.ErrConversionFailed, path)
	}
	return ci.next.Import(target, options)
}
