package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/urdfviz/engine/assets"
	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

const triangleObj = "o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

// fixture lays out a robot package on disk and returns the builder wired to
// it together with the directory the description lives in.
type fixture struct {
	baseDir string
	pkgDir  string
	cache   *loaders.MeshCache
	builder *GeometryBuilder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		baseDir: filepath.Join(root, "robot"),
		pkgDir:  filepath.Join(root, "arm_description"),
	}
	for _, dir := range []string{f.baseDir, filepath.Join(f.baseDir, "mesh"), filepath.Join(f.pkgDir, "meshes")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range []string{filepath.Join(f.baseDir, "mesh", "part.obj"), filepath.Join(f.pkgDir, "meshes", "link.obj")} {
		if err := os.WriteFile(p, []byte(triangleObj), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	loader := loaders.NewMeshLoader()
	loader.Register(".obj", loaders.ObjImporter{})
	f.cache = loaders.NewMeshCache(loader)
	resolver := assets.NewResolver(assets.StaticLocator{"arm_description": f.pkgDir})
	f.builder = NewGeometryBuilder(resolver, f.cache)
	return f
}

func visual(g resources.Geometry, rgb ...float64) resources.Visual {
	color := resources.DefaultColor
	if len(rgb) == 3 {
		color = resources.RGBA{rgb[0], rgb[1], rgb[2], 1}
	}
	return resources.Visual{Geometry: g, Material: resources.Material{Color: color}}
}

func meshVisual(filename string) resources.Visual {
	return visual(&resources.Mesh{Filename: filename, Scale: [3]float64{1, 1, 1}})
}

func sampleRobot() *resources.Robot {
	return &resources.Robot{
		Name: "sample",
		Links: []resources.Link{
			{Name: "base", Visual: visual(&resources.Box{Size: [3]float64{1, 2, 3}}, 1, 0, 0)},
			{Name: "shaft", Visual: visual(&resources.Cylinder{Radius: 0.1, Length: 0.5})},
			{Name: "ball", Visual: visual(&resources.Sphere{Radius: 0.2})},
			{Name: "missing", Visual: meshVisual("mesh/missing.obj")},
			{Name: "local", Visual: meshVisual("mesh/part.obj")},
			{Name: "packaged", Visual: meshVisual("package://arm_description/meshes/link.obj")},
			{Name: "unknown_pkg", Visual: meshVisual("package://nowhere/meshes/link.obj")},
			{Name: "ghost"},
		},
	}
}

func findKind(n *scene.Node, kind scene.NodeKind) *scene.Node {
	var found *scene.Node
	n.Walk(func(c *scene.Node) bool {
		if found == nil && c.Kind() == kind {
			found = c
		}
		return found == nil
	})
	return found
}

func colorOf(t *testing.T, v *Viewer, name string) math.Vec3 {
	t.Helper()
	n, ok := v.Node(name)
	if !ok {
		t.Fatalf("%s not registered", name)
	}
	return n.Color()
}

func newReadyViewer(t *testing.T) (*Viewer, *renderer.Headless, *fixture) {
	t.Helper()
	f := newFixture(t)
	window := renderer.NewHeadless(-1)
	v := NewViewer(window, sampleRobot(), f.builder)
	if err := v.Setup(f.baseDir); err != nil {
		t.Fatal(err)
	}
	return v, window, f
}
