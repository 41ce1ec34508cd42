package systems

import (
	"errors"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/urdfviz/engine/assets"
	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/resources"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

// GeometryBuilder turns the visual of a link into scene nodes.
type GeometryBuilder struct {
	resolver *assets.Resolver
	meshes   *loaders.MeshCache
	// mesh groups and the file whose cache reference they hold
	acquired map[uuid.UUID]string
}

func NewGeometryBuilder(resolver *assets.Resolver, meshes *loaders.MeshCache) *GeometryBuilder {
	return &GeometryBuilder{
		resolver: resolver,
		meshes:   meshes,
		acquired: map[uuid.UUID]string{},
	}
}

// Build adds the visual of linkName under parent. The returned node is the
// link frame; the geometry hangs below it at the visual origin. On failure
// nothing stays attached to parent.
func (gb *GeometryBuilder) Build(parent *scene.Node, linkName string, v resources.Visual, baseDir string) (*scene.Node, bool) {
	if v.Geometry == nil {
		core.LogWarn("link %s has no visual geometry", linkName)
		return nil, false
	}

	link := parent.AddGroup()
	origin := link.AddGroup()
	origin.SetLocalTransformation(*poseTransform(v.Origin))

	if !gb.addGeometry(origin, v.Geometry, baseDir) {
		gb.Drop(link)
		core.LogError("failed to create for %s (%s)", linkName, v.Geometry.Type())
		return nil, false
	}

	c := v.Material.Color
	link.SetColor(float32(c[0]), float32(c[1]), float32(c[2]))
	return link, true
}

func (gb *GeometryBuilder) addGeometry(node *scene.Node, g resources.Geometry, baseDir string) bool {
	switch geom := g.(type) {
	case *resources.Box:
		node.AddCube(float32(geom.Size[0]), float32(geom.Size[1]), float32(geom.Size[2]))
	case *resources.Cylinder:
		// urdf cylinders run along z, scene cylinders along y
		axis := node.AddGroup()
		axis.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3UnitX(), math.K_HALF_PI, true))
		axis.AddCylinder(float32(geom.Radius), float32(geom.Length))
	case *resources.Sphere:
		node.AddSphere(float32(geom.Radius))
	case *resources.Mesh:
		return gb.addMesh(node, geom, baseDir)
	default:
		return false
	}
	return true
}

func (gb *GeometryBuilder) addMesh(node *scene.Node, m *resources.Mesh, baseDir string) bool {
	path, err := gb.resolver.Resolve(m.Filename, baseDir)
	if err != nil {
		core.LogError("%s", err)
		return false
	}
	if _, err := os.Stat(path); err != nil {
		core.LogError("%s not found", path)
		return false
	}

	meshes, err := gb.meshes.Acquire(path)
	if err != nil {
		core.LogError("%s", err)
		return false
	}

	if len(meshes) == 0 {
		gb.meshes.Release(path)
		core.LogError("%s has no meshes", path)
		return false
	}

	group := node.AddGroup()
	gb.acquired[group.ID()] = path
	scale := math.NewVec3FromFloat64(m.Scale)
	for _, mesh := range meshes {
		group.AddMesh(mesh, scale)
	}
	return true
}

// Drop detaches a node returned by Build and gives back the mesh references
// held below it.
func (gb *GeometryBuilder) Drop(link *scene.Node) {
	link.Unlink()
	link.Walk(func(n *scene.Node) bool {
		if path, ok := gb.acquired[n.ID()]; ok {
			gb.meshes.Release(path)
			delete(gb.acquired, n.ID())
		}
		return true
	})
}

// Prefetch loads every mesh file robot references on the job system, so
// Build finds them in the cache. Failures are left for Build to report.
func (gb *GeometryBuilder) Prefetch(robot *resources.Robot, baseDir string, jobs *JobSystem) int {
	paths := map[string]struct{}{}
	for _, l := range robot.Links {
		m, ok := l.Visual.Geometry.(*resources.Mesh)
		if !ok {
			continue
		}
		path, err := gb.resolver.Resolve(m.Filename, baseDir)
		if err != nil {
			continue
		}
		paths[path] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		path := p
		jobs.Submit(JobTask{
			Name: "prefetch " + path,
			OnStart: func() error {
				if _, err := os.Stat(path); err != nil {
					return err
				}
				return gb.meshes.Warm(path)
			},
			OnFailure: func(err error) {
				if !errors.Is(err, os.ErrNotExist) {
					core.LogWarn("prefetch of %s failed: %s", path, err)
				}
			},
		})
	}
	jobs.Wait()
	return len(sorted)
}

func poseTransform(p resources.Pose) *math.Transform {
	return math.TransformFromPositionRotation(
		math.NewVec3FromFloat64(p.XYZ),
		math.NewQuatFromRPY(float32(p.RPY[0]), float32(p.RPY[1]), float32(p.RPY[2])),
	)
}
