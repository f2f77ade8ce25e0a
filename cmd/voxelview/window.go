package main

import (
	"context"
	"fmt"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/graphics"
	"voxelmesh/internal/graphics/renderables/chunks"
	"voxelmesh/internal/graphics/renderer"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// viewer owns the window loop: it streams chunks around a movable center,
// orbits the camera and draws the meshed chunks.
type viewer struct {
	cfg      *config.Config
	savePath string
	scene    *scene
	pool     *meshing.WorkerPool
	log      *zap.Logger

	camera *graphics.Camera
	center world.ChunkCoord
}

func setupWindow(cfg config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "voxelview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

func (v *viewer) run(ctx context.Context, initial []meshing.MeshResult) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(v.cfg.Window)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}

	v.camera = graphics.NewCamera(v.cfg.Window.Width, v.cfg.Window.Height)
	v.camera.FOV = v.cfg.Render.FOV
	v.camera.Radius = v.cfg.Render.OrbitRadius
	v.retarget()

	chunkRenderer := chunks.NewChunks(v.scene.store, v.pool, v.log)
	chunkRenderer.LightDir = mgl32.Vec3(v.cfg.Render.LightDir)
	chunkRenderer.LightColor = mgl32.Vec3(v.cfg.Render.LightColor)

	r, err := renderer.NewRenderer(v.camera, chunkRenderer)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	defer r.Dispose()

	for _, res := range initial {
		chunkRenderer.Upload(res)
	}

	fbW, fbH := window.GetFramebufferSize()
	r.UpdateViewport(fbW, fbH)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		r.UpdateViewport(w, h)
	})
	v.setupInputHandlers(window)

	prof := profiling.NewFrame()
	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()
	for !window.ShouldClose() && ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		func() { defer prof.Track("world.Stream")(); v.stream() }()

		v.camera.Orbit(mgl32.RadToDeg(v.cfg.Render.OrbitSpeed*float32(dt)), 0)
		func() { defer prof.Track("renderer.Render")(); r.Render(dt) }()
		frames++

		if time.Since(lastFPSCheck) >= time.Second {
			v.log.Debug("frame stats",
				zap.Int("fps", frames),
				zap.Int("chunks", v.scene.store.Len()),
				zap.Int("queued_jobs", v.pool.GetQueueLength()),
				zap.Int("stream_pending", v.scene.streamer.Pending()),
				zap.Duration("glfw", prof.SumWithPrefix("glfw.")),
				zap.String("top", prof.TopN(3)),
			)
			prof.Reset()
			frames = 0
			lastFPSCheck = time.Now()
		}

		func() { defer prof.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		func() { defer prof.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	}
	return nil
}

// stream requests missing columns around the center and evicts the ones
// beyond one chunk of slack, so moving back and forth does not thrash.
func (v *viewer) stream() {
	radius := v.cfg.World.ViewRadius
	if _, err := v.scene.streamer.RequestAround(v.center.X, v.center.Z, radius); err != nil {
		v.log.Warn("chunk streaming stopped", zap.Error(err))
		return
	}
	if n := v.scene.streamer.EvictFar(v.center.X, v.center.Z, radius+1); n > 0 {
		v.log.Debug("evicted chunks", zap.Int("count", n), zap.Any("center", v.center))
	}
}

// retarget points the camera at the water surface of the center chunk.
func (v *viewer) retarget() {
	off := v.center.WorldOffset()
	v.camera.Target = mgl32.Vec3{
		float32(off.X + world.ChunkSizeX/2),
		waterLevel,
		float32(off.Z + world.ChunkSizeZ/2),
	}.Mul(v.cfg.Meshing.VoxelSize)
}

func (v *viewer) move(d world.Direction) {
	v.center = v.center.Add(d.Vector())
	v.retarget()
	v.log.Debug("view center moved", zap.Any("center", v.center))
}

// saveConfig writes the current settings, including the zoomed orbit radius.
func (v *viewer) saveConfig() {
	v.cfg.Render.OrbitRadius = v.camera.Radius
	if err := config.Save(v.cfg, v.savePath); err != nil {
		v.log.Warn("saving config failed", zap.Error(err))
		return
	}
	v.log.Info("config saved", zap.String("path", v.savePath))
}

// placePillar stacks a voxel of the configured type on each side of the
// chunk border at the view center, which exercises remeshing of both
// neighbors. Unknown type names fall back to stone.
func (v *viewer) placePillar() {
	t, ok := world.ParseVoxelType(v.cfg.World.PlaceType)
	if !ok || t == world.VoxelAir {
		t = world.VoxelStone
	}
	off := v.center.WorldOffset()
	for _, x := range []int{off.X - 1, off.X} {
		y := groundLevel(v.scene.store, x, off.Z)
		if err := v.scene.store.Set(x, y, off.Z, t); err != nil {
			v.log.Warn("placing voxel failed", zap.Error(err))
		}
	}
}

// setupInputHandlers binds Escape to quit, arrows to move the streaming
// center, Space to drop stone on a chunk border, S to save the config and
// the scroll wheel to zoom.
func (v *viewer) setupInputHandlers(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyUp:
			v.move(world.DirBack)
		case glfw.KeyDown:
			v.move(world.DirFront)
		case glfw.KeyLeft:
			v.move(world.DirLeft)
		case glfw.KeyRight:
			v.move(world.DirRight)
		case glfw.KeySpace:
			v.placePillar()
		case glfw.KeyS:
			v.saveConfig()
		}
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if yoff > 0 {
			v.camera.Zoom(0.9)
		} else if yoff < 0 {
			v.camera.Zoom(1.1)
		}
	})
}
