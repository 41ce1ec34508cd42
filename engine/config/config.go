package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultCacheDir is where macro-expanded descriptions and converted meshes
// are written unless the configuration says otherwise.
const DefaultCacheDir = "/tmp/urdf_viz/"

type Window struct {
	Title      string     `toml:"title"`
	Width      uint32     `toml:"width"`
	Height     uint32     `toml:"height"`
	Background [3]float32 `toml:"background"`
	TargetFPS  int32      `toml:"target_fps"`
}

type Camera struct {
	Eye    [3]float32 `toml:"eye"`
	Target [3]float32 `toml:"target"`
	Up     [3]float32 `toml:"up"`
	Fovy   float32    `toml:"fovy"`
}

// Paths holds the cache location and the external commands. Commands are
// shell-style strings and are split before execution.
type Paths struct {
	CacheDir        string   `toml:"cache_dir"`
	PackageLocator  string   `toml:"package_locator"`
	Xacro           string   `toml:"xacro"`
	MeshConverter   string   `toml:"mesh_converter"`
	ConvertedMeshes []string `toml:"converted_meshes"`
}

type Viewer struct {
	DOFLimit       int     `toml:"dof_limit"`
	StrictPackages bool    `toml:"strict_packages"`
	Watch          bool    `toml:"watch"`
	LogLevel       string  `toml:"log_level"`
	AxisSize       float32 `toml:"axis_size"`
	Font           string  `toml:"font"`
	FontSize       int32   `toml:"font_size"`
}

type Config struct {
	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Paths  Paths  `toml:"paths"`
	Viewer Viewer `toml:"viewer"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:      "urdf_viewer",
			Width:      1400,
			Height:     1000,
			Background: [3]float32{0.0, 0.0, 0.3},
			TargetFPS:  60,
		},
		Camera: Camera{
			Eye:    [3]float32{3.0, 1.0, 1.0},
			Target: [3]float32{0.0, 0.0, 0.25},
			Up:     [3]float32{0.0, 0.0, 1.0},
			Fovy:   45,
		},
		Paths: Paths{
			CacheDir:        DefaultCacheDir,
			PackageLocator:  "rospack find",
			Xacro:           "rosrun xacro xacro --inorder",
			MeshConverter:   "assimp export",
			ConvertedMeshes: []string{".dae", ".ply", ".3ds", ".fbx"},
		},
		Viewer: Viewer{
			DOFLimit: 6,
			LogLevel: "info",
			AxisSize: 0.3,
			FontSize: 20,
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.expand()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, cfg.expand()
}

func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window size must be non zero, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Viewer.DOFLimit < 0 {
		return fmt.Errorf("dof_limit must not be negative, got %d", c.Viewer.DOFLimit)
	}
	if c.Paths.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	return nil
}

func (c *Config) expand() error {
	dir, err := homedir.Expand(c.Paths.CacheDir)
	if err != nil {
		return fmt.Errorf("expanding cache_dir: %w", err)
	}
	c.Paths.CacheDir = dir
	if c.Viewer.Font != "" {
		font, err := homedir.Expand(c.Viewer.Font)
		if err != nil {
			return fmt.Errorf("expanding font: %w", err)
		}
		c.Viewer.Font = font
	}
	return nil
}

// Encode writes the configuration as TOML, used to dump the effective
// settings.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
