package systems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/urdfviz/engine/assets"
	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrimitives(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()

	box, ok := f.builder.Build(g.Root(), "box", visual(&resources.Box{Size: [3]float64{1, 2, 3}}, 0.2, 0.4, 0.6), f.baseDir)
	require.True(t, ok)
	cube := findKind(box, scene.NodeKindCube)
	require.NotNil(t, cube)
	assert.Equal(t, math.NewVec3(1, 2, 3), cube.Shape().Size)
	assert.True(t, box.Color().Compare(math.NewVec3(0.2, 0.4, 0.6), 1e-6))
	assert.True(t, cube.Color().Compare(math.NewVec3(0.2, 0.4, 0.6), 1e-6))

	cyl, ok := f.builder.Build(g.Root(), "cyl", visual(&resources.Cylinder{Radius: 0.1, Length: 0.5}), f.baseDir)
	require.True(t, ok)
	c := findKind(cyl, scene.NodeKindCylinder)
	require.NotNil(t, c)
	assert.Equal(t, float32(0.1), c.Shape().Radius)
	assert.Equal(t, float32(0.5), c.Shape().Height)
	// the scene y axis of the cylinder must end up on the link z axis
	top := math.NewVec3(0, 0.25, 0).Transform(c.World())
	assert.True(t, top.Compare(math.NewVec3(0, 0, 0.25), 1e-4), "%v", top)

	sph, ok := f.builder.Build(g.Root(), "sph", visual(&resources.Sphere{Radius: 0.3}), f.baseDir)
	require.True(t, ok)
	require.NotNil(t, findKind(sph, scene.NodeKindSphere))

	assert.Len(t, g.Root().Children(), 3)
}

func TestBuildAppliesVisualOrigin(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()
	v := visual(&resources.Sphere{Radius: 0.3})
	v.Origin = resources.Pose{XYZ: [3]float64{0, 0, 1}}

	link, ok := f.builder.Build(g.Root(), "sph", v, f.baseDir)
	require.True(t, ok)
	link.SetLocalTranslation(math.NewVec3(1, 0, 0))

	s := findKind(link, scene.NodeKindSphere)
	center := math.NewVec3Zero().Transform(s.World())
	assert.True(t, center.Compare(math.NewVec3(1, 0, 1), 1e-5), "%v", center)
}

func TestBuildMesh(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()
	v := meshVisual("mesh/part.obj")
	v.Geometry.(*resources.Mesh).Scale = [3]float64{2, 2, 2}

	link, ok := f.builder.Build(g.Root(), "part", v, f.baseDir)
	require.True(t, ok)
	m := findKind(link, scene.NodeKindMesh)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Mesh().TriangleCount())
	assert.Equal(t, math.NewVec3(2, 2, 2), m.LocalTransformation().Scale)

	pkg, ok := f.builder.Build(g.Root(), "pkg", meshVisual("package://arm_description/meshes/link.obj"), f.baseDir)
	require.True(t, ok)
	require.NotNil(t, findKind(pkg, scene.NodeKindMesh))
}

func TestBuildSharesMeshes(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()

	a, ok := f.builder.Build(g.Root(), "a", meshVisual("mesh/part.obj"), f.baseDir)
	require.True(t, ok)
	b, ok := f.builder.Build(g.Root(), "b", meshVisual("mesh/part.obj"), f.baseDir)
	require.True(t, ok)

	assert.Same(t, findKind(a, scene.NodeKindMesh).Mesh(), findKind(b, scene.NodeKindMesh).Mesh())
	assert.Equal(t, 1, f.cache.Len())
}

func TestBuildFailuresLeaveNothingBehind(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()

	cases := map[string]resources.Visual{
		"missing file":    meshVisual("mesh/missing.obj"),
		"unknown package": meshVisual("package://nowhere/x.obj"),
		"unsupported":     meshVisual("mesh/part.xyz"),
		"no geometry":     {},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			node, ok := f.builder.Build(g.Root(), name, v, f.baseDir)
			assert.False(t, ok)
			assert.Nil(t, node)
			assert.Empty(t, g.Root().Children())
		})
	}
}

func TestPrefetchWarmsCache(t *testing.T) {
	f := newFixture(t)
	jobs, err := NewJobSystem(4, 8)
	require.NoError(t, err)
	defer jobs.Shutdown()

	n := f.builder.Prefetch(sampleRobot(), f.baseDir, jobs)
	// missing.obj and part.obj and link.obj resolve; nowhere does not
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, f.cache.Len())
}

func TestDropReleasesMeshes(t *testing.T) {
	f := newFixture(t)
	g := scene.NewGraph()
	path := filepath.Join(f.baseDir, "mesh", "part.obj")

	a, ok := f.builder.Build(g.Root(), "a", meshVisual("mesh/part.obj"), f.baseDir)
	require.True(t, ok)
	b, ok := f.builder.Build(g.Root(), "b", meshVisual("mesh/part.obj"), f.baseDir)
	require.True(t, ok)
	assert.Equal(t, uint64(2), f.cache.References(path))

	f.builder.Drop(a)
	assert.Equal(t, uint64(1), f.cache.References(path))
	assert.Len(t, g.Root().Children(), 1)

	f.builder.Drop(b)
	assert.Equal(t, 0, f.cache.Len())
	assert.Empty(t, g.Root().Children())
}

func TestBuildReleasesEmptyMesh(t *testing.T) {
	f := newFixture(t)
	empty := filepath.Join(f.baseDir, "mesh", "empty.dae")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	loader := loaders.NewMeshLoader()
	loader.Register(".dae", loaders.ImporterFunc(func(string, loaders.ImportOptions) ([]loaders.RawMesh, error) {
		return nil, nil
	}))
	cache := loaders.NewMeshCache(loader)
	builder := NewGeometryBuilder(assets.NewResolver(assets.StaticLocator{}), cache)

	g := scene.NewGraph()
	node, ok := builder.Build(g.Root(), "hollow", meshVisual("mesh/empty.dae"), f.baseDir)
	assert.False(t, ok)
	assert.Nil(t, node)
	assert.Empty(t, g.Root().Children())
	assert.Equal(t, uint64(0), cache.References(empty))
	assert.Equal(t, 0, cache.Len())
}
