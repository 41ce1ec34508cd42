package raylib

import (
	"runtime"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/spaghettifunk/urdfviz/engine/assets/loaders"
	"github.com/spaghettifunk/urdfviz/engine/config"
	"github.com/spaghettifunk/urdfviz/engine/core"
	"github.com/spaghettifunk/urdfviz/engine/math"
	"github.com/spaghettifunk/urdfviz/engine/renderer"
	"github.com/spaghettifunk/urdfviz/engine/renderer/components"
	"github.com/spaghettifunk/urdfviz/engine/scene"
)

func init() {
	// raylib drives GLFW and OpenGL, both bound to the main thread
	runtime.LockOSThread()
}

const (
	cylinderSlices = 24
	sphereRings    = 16
	sphereSlices   = 24
	orbitSpeed     = 1.5
	zoomStep       = 0.1
)

var keyMap = map[int32]core.KeyCode{
	rl.KeyTab:       core.KEY_TAB,
	rl.KeyEscape:    core.KEY_ESCAPE,
	rl.KeyEnter:     core.KEY_ENTER,
	rl.KeySpace:     core.KEY_SPACE,
	rl.KeyBackspace: core.KEY_BACKSPACE,
	rl.KeyR:         core.KEY_R,
	rl.KeyLeft:      core.KEY_LEFT,
	rl.KeyRight:     core.KEY_RIGHT,
	rl.KeyUp:        core.KEY_UP,
	rl.KeyDown:      core.KEY_DOWN,
}

type uploaded struct {
	mesh   rl.Mesh
	pinner runtime.Pinner
}

// Window is the raylib backed renderer.Window.
type Window struct {
	graph      *scene.Graph
	camera     *components.Camera
	background rl.Color
	material   rl.Material
	font       rl.Font
	customFont bool

	cube     rl.Mesh
	cylinder rl.Mesh
	sphere   rl.Mesh
	meshes   map[*scene.Mesh]*uploaded

	texts  []renderer.TextCommand
	events []core.Event
	closed bool
}

// New opens the window described by cfg. It must run on the main goroutine.
func New(cfg *config.Config) *Window {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	rl.SetTargetFPS(cfg.Window.TargetFPS)
	// escape is used for highlighting, not for quitting
	rl.SetExitKey(rl.KeyNull)

	w := &Window{
		graph: scene.NewGraph(),
		camera: components.NewCamera(
			vec3(cfg.Camera.Eye),
			vec3(cfg.Camera.Target),
			vec3(cfg.Camera.Up),
			cfg.Camera.Fovy,
		),
		material: rl.LoadMaterialDefault(),
		font:     rl.GetFontDefault(),
		cube:     rl.GenMeshCube(1, 1, 1),
		cylinder: rl.GenMeshCylinder(1, 1, cylinderSlices),
		sphere:   rl.GenMeshSphere(1, sphereRings, sphereSlices),
		meshes:   map[*scene.Mesh]*uploaded{},
	}
	w.SetBackgroundColor(cfg.Window.Background[0], cfg.Window.Background[1], cfg.Window.Background[2])

	if cfg.Viewer.Font != "" {
		info, err := loaders.InspectFont(cfg.Viewer.Font)
		if err != nil {
			core.LogWarn("overlay font unusable, falling back to the default: %s", err)
		} else {
			w.font = rl.LoadFontEx(info.Path, cfg.Viewer.FontSize, nil)
			w.customFont = true
			core.LogDebug("loaded overlay font %s (%d glyphs)", info.Family, info.Glyphs)
		}
	}
	core.LogInfo("window %q opened (%dx%d)", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	return w
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}

func toVector3(v math.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func toColor(v math.Vec3) rl.Color {
	return rl.NewColor(uint8(v.X*255), uint8(v.Y*255), uint8(v.Z*255), 255)
}

func toMatrix(m math.Mat4) rl.Matrix {
	d := m.Data
	return rl.Matrix{
		M0: d[0], M1: d[1], M2: d[2], M3: d[3],
		M4: d[4], M5: d[5], M6: d[6], M7: d[7],
		M8: d[8], M9: d[9], M10: d[10], M11: d[11],
		M12: d[12], M13: d[13], M14: d[14], M15: d[15],
	}
}

func (w *Window) Scene() *scene.Graph { return w.graph }

func (w *Window) SetBackgroundColor(r, g, b float32) {
	w.background = toColor(math.NewVec3(r, g, b))
}

func (w *Window) DrawText(text string, size float32, pos math.Vec2, color math.Vec3) {
	w.texts = append(w.texts, renderer.TextCommand{Text: text, Size: size, Pos: pos, Color: color})
}

func (w *Window) PollEvents() []core.Event {
	events := w.events
	w.events = nil
	return events
}

func (w *Window) Render() bool {
	if w.closed || rl.WindowShouldClose() {
		return false
	}
	w.handleInput()

	rl.BeginDrawing()
	rl.ClearBackground(w.background)

	rl.BeginMode3D(rl.Camera3D{
		Position:   toVector3(w.camera.Eye),
		Target:     toVector3(w.camera.Target),
		Up:         toVector3(w.camera.Up),
		Fovy:       w.camera.Fovy,
		Projection: rl.CameraPerspective,
	})
	w.graph.Root().Walk(func(n *scene.Node) bool {
		if !n.Visible() {
			return false
		}
		w.drawNode(n)
		return true
	})
	rl.EndMode3D()

	for _, t := range w.texts {
		rl.DrawTextEx(w.font, t.Text, rl.NewVector2(t.Pos.X, t.Pos.Y), t.Size, 1, toColor(t.Color))
	}
	w.texts = w.texts[:0]

	rl.EndDrawing()
	return true
}

func (w *Window) handleInput() {
	for key, code := range keyMap {
		if rl.IsKeyPressed(key) {
			w.events = append(w.events, core.KeyPressed(code))
		}
	}
	dt := rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyLeft) {
		w.camera.Orbit(-orbitSpeed * dt)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		w.camera.Orbit(orbitSpeed * dt)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		w.camera.Tilt(orbitSpeed * dt)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		w.camera.Tilt(-orbitSpeed * dt)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.camera.Zoom(1 - wheel*zoomStep)
	}
}

func (w *Window) drawNode(n *scene.Node) {
	shape := n.Shape()
	var (
		mesh  rl.Mesh
		local math.Mat4
	)
	switch n.Kind() {
	case scene.NodeKindCube:
		mesh = w.cube
		local = math.NewMat4Scale(shape.Size)
	case scene.NodeKindCylinder:
		// raylib cylinders span 0..height along y
		mesh = w.cylinder
		local = math.NewMat4Scale(math.NewVec3(shape.Radius, shape.Height, shape.Radius)).
			Mul(math.NewMat4Translation(math.NewVec3(0, -shape.Height/2, 0)))
	case scene.NodeKindSphere:
		mesh = w.sphere
		local = math.NewMat4Scale(math.NewVec3(shape.Radius, shape.Radius, shape.Radius))
	case scene.NodeKindMesh:
		up, ok := w.upload(n.Mesh())
		if !ok {
			return
		}
		mesh = up.mesh
		local = math.NewMat4Identity()
	default:
		return
	}

	if albedo := w.material.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = toColor(n.Color())
	}
	rl.DrawMesh(mesh, w.material, toMatrix(local.Mul(n.World())))
}

// upload sends a scene mesh to the GPU once. Triangles are expanded because
// raylib indices are 16 bit.
func (w *Window) upload(m *scene.Mesh) (*uploaded, bool) {
	if up, ok := w.meshes[m]; ok {
		return up, up.mesh.VertexCount > 0
	}

	vertices := m.Vertices()
	triangles := m.Triangles()
	positions := make([]float32, 0, len(triangles)*9)
	normals := make([]float32, 0, len(triangles)*9)
	for _, t := range triangles {
		a, b, c := vertices[t[0]], vertices[t[1]], vertices[t[2]]
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, v := range []math.Vec3{a, b, c} {
			positions = append(positions, v.X, v.Y, v.Z)
			normals = append(normals, normal.X, normal.Y, normal.Z)
		}
	}

	up := &uploaded{}
	w.meshes[m] = up
	if len(triangles) == 0 {
		core.LogDebug("mesh %s has no triangles, nothing to draw", m.Name())
		return up, false
	}

	// raylib keeps the CPU buffers referenced by the mesh
	up.pinner.Pin(unsafe.SliceData(positions))
	up.pinner.Pin(unsafe.SliceData(normals))
	up.mesh = rl.Mesh{
		VertexCount:   int32(len(positions) / 3),
		TriangleCount: int32(len(triangles)),
		Vertices:      unsafe.SliceData(positions),
		Normals:       unsafe.SliceData(normals),
	}
	rl.UploadMesh(&up.mesh, false)
	return up, true
}

func (w *Window) Close() error {
	if w.closed {
		return core.ErrNotReady
	}
	w.closed = true
	rl.UnloadMesh(&w.cube)
	rl.UnloadMesh(&w.cylinder)
	rl.UnloadMesh(&w.sphere)
	// uploaded meshes own Go memory and are released with the GL context
	for _, up := range w.meshes {
		up.pinner.Unpin()
	}
	if w.customFont {
		rl.UnloadFont(w.font)
	}
	rl.CloseWindow()
	return nil
}
