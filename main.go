/*
urdfviz renders a robot description and animates its joints.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/urdfviz/engine"
	"github.com/spaghettifunk/urdfviz/engine/assets"
	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/config"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/kinematics"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/platform"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/renderer/raylib"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/systems"
)

type options struct {
	configPath     string
	dof            int
	logLevel       string
	headlessFrames int
	watch          bool
	dumpConfig     bool
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "urdfviz [flags] <input.urdf|input.xacro>",
		Short:        "Show a robot description and sweep its joints",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dof") {
				cfg.Viewer.DOFLimit = opts.dof
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Viewer.LogLevel = opts.logLevel
			}
			if cmd.Flags().Changed("watch") {
				cfg.Viewer.Watch = opts.watch
			}
			if opts.dumpConfig {
				out, err := cfg.Encode()
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			}
			return run(cfg, args[0], opts.headlessFrames)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	flags.IntVarP(&opts.dof, "dof", "d", 6, "number of joints to move")
	flags.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn, error or fatal")
	flags.IntVar(&opts.headlessFrames, "headless-frames", 0, "render this many frames without a window and exit")
	flags.BoolVar(&opts.watch, "watch", false, "report changes of the description file")
	flags.BoolVar(&opts.dumpConfig, "dump-config", false, "print the effective configuration and exit")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, input string, headlessFrames int) error {
	if err := core.SetLogLevel(cfg.Viewer.LogLevel); err != nil {
		return err
	}
	runner := platform.NewExecRunner()

	xacro, err := platform.ParseCommand(cfg.Paths.Xacro)
	if err != nil {
		return fmt.Errorf("xacro command: %w", err)
	}
	input, err = filepath.Abs(input)
	if err != nil {
		return err
	}
	description, err := assets.NewPreprocessor(cfg.Paths.CacheDir, xacro, runner).Prepare(input)
	if err != nil {
		return err
	}

	robot, err := resources.ParseFile(description)
	if err != nil {
		return err
	}
	core.LogInfo("loaded %s: %d links, %d joints", robot.Name, len(robot.Links), len(robot.Joints))

	builder, err := newGeometryBuilder(cfg, runner)
	if err != nil {
		return err
	}

	var window renderer.Window
	if headlessFrames > 0 {
		window = renderer.NewHeadless(headlessFrames)
	} else {
		window = raylib.New(cfg)
	}
	defer window.Close()

	viewer := systems.NewViewer(window, robot, builder)
	viewer.Background = vec3(cfg.Window.Background)
	jobs, err := systems.NewJobSystem(runtime.NumCPU(), 64)
	if err != nil {
		return err
	}
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			core.LogWarn("failed to stop the job system: %s", err)
		}
	}()
	viewer.UseJobs(jobs)
	// meshes resolve relative to the input, not to the cached expansion
	if err := viewer.Setup(filepath.Dir(input)); err != nil {
		return err
	}
	defer viewer.Teardown()
	viewer.AddAxisIndicator("origin", cfg.Viewer.AxisSize)

	chain, err := kinematics.NewChain(robot, cfg.Viewer.DOFLimit)
	if err != nil {
		return err
	}
	core.LogInfo("moving joints %v", chain.JointNames())

	app := engine.DefaultApplicationConfig(robot.Name)
	app.TextSize = float32(cfg.Viewer.FontSize)
	e := engine.New(app, viewer, chain)

	if cfg.Viewer.Watch {
		watcher, err := assets.NewWatcher(input)
		if err != nil {
			return err
		}
		defer watcher.Close()
		e.AddEventSource(watcher)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	// start shutdown goroutine
	go func() {
		<-sigCh
		_ = e.Shutdown()
	}()

	return e.Run(context.Background())
}

func newGeometryBuilder(cfg *config.Config, runner platform.Runner) (*systems.GeometryBuilder, error) {
	locate, err := platform.ParseCommand(cfg.Paths.PackageLocator)
	if err != nil {
		return nil, fmt.Errorf("package locator command: %w", err)
	}
	resolver := assets.NewResolver(assets.NewRosPackLocator(locate, runner))
	resolver.SetStrict(cfg.Viewer.StrictPackages)

	loader := loaders.NewMeshLoader()
	loader.Register(".obj", loaders.ObjImporter{})
	loader.Register(".stl", loaders.StlImporter{})
	if cfg.Paths.MeshConverter != "" {
		convert, err := platform.ParseCommand(cfg.Paths.MeshConverter)
		if err != nil {
			return nil, fmt.Errorf("mesh converter command: %w", err)
		}
		converter := loaders.NewConvertImporter(cfg.Paths.CacheDir, convert, runner, loaders.ObjImporter{})
		for _, ext := range cfg.Paths.ConvertedMeshes {
			loader.Register(ext, converter)
		}
	}
	return systems.NewGeometryBuilder(resolver, loaders.NewMeshCache(loader)), nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}
