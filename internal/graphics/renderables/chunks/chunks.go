// Package chunks draws the greedy-meshed chunks of a world.Store.
package chunks

import (
	"voxelmesh/internal/graphics"
	"voxelmesh/internal/graphics/renderer"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// resultBuffer bounds how many finished meshes can wait for the render thread.
const resultBuffer = 100

// Chunks is a renderable that keeps one GPU buffer per chunk, remeshing dirty
// chunks on the worker pool and uploading results on the render thread.
type Chunks struct {
	store  *world.Store
	pool   *meshing.WorkerPool
	logger *zap.Logger

	shader  *graphics.Shader
	buffers map[world.ChunkCoord]*graphics.MeshBuffer
	track   *tracker
	results chan meshing.MeshResult

	LightDir   mgl32.Vec3
	LightColor mgl32.Vec3
}

var _ renderer.Renderable = (*Chunks)(nil)

// NewChunks creates the renderable. Lighting defaults to a white sun.
func NewChunks(store *world.Store, pool *meshing.WorkerPool, logger *zap.Logger) *Chunks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chunks{
		store:      store,
		pool:       pool,
		logger:     logger,
		buffers:    make(map[world.ChunkCoord]*graphics.MeshBuffer),
		track:      newTracker(),
		results:    make(chan meshing.MeshResult, resultBuffer),
		LightDir:   mgl32.Vec3{0.5, 1.0, 0.3},
		LightColor: mgl32.Vec3{1, 1, 1},
	}
}

func (c *Chunks) Init() error {
	shader, err := graphics.LoadShader("voxel")
	if err != nil {
		return err
	}
	c.shader = shader
	return nil
}

// Upload installs a prebuilt mesh, for example from a synchronous warm-up
// pass, and marks its chunk clean up to the mesh version.
func (c *Chunks) Upload(r meshing.MeshResult) {
	c.apply(r)
}

func (c *Chunks) Render(ctx renderer.RenderContext) {
	c.schedule()
	c.drain()
	c.prune()

	c.shader.Use()
	model := mgl32.Ident4()
	c.shader.SetMatrix4("model", &model[0])
	c.shader.SetMatrix4("view", &ctx.View[0])
	c.shader.SetMatrix4("projection", &ctx.Proj[0])
	c.shader.SetVector3("lightDir", c.LightDir.X(), c.LightDir.Y(), c.LightDir.Z())
	c.shader.SetVector3("lightColor", c.LightColor.X(), c.LightColor.Y(), c.LightColor.Z())
	eye := ctx.Camera.Position()
	c.shader.SetVector3("viewPos", eye.X(), eye.Y(), eye.Z())

	for _, b := range c.buffers {
		b.Draw()
	}
}

func (c *Chunks) Dispose() {
	for coord, b := range c.buffers {
		b.Delete()
		delete(c.buffers, coord)
	}
	if c.shader != nil {
		c.shader.Delete()
	}
}

// schedule submits a job for every dirty chunk that is not already queued.
// A full queue leaves the rest for the next frame.
func (c *Chunks) schedule() {
	for _, ch := range c.store.Chunks() {
		if !c.track.needsMesh(ch) {
			continue
		}
		if !c.pool.SubmitJob(meshing.MeshJob{Chunk: ch, ResultChan: c.results}) {
			return
		}
		c.track.submitted(ch)
	}
}

// drain applies every finished mesh without blocking the frame.
func (c *Chunks) drain() {
	for {
		select {
		case r := <-c.results:
			c.apply(r)
		default:
			return
		}
	}
}

// apply uploads r if it was built from the chunk currently stored at its
// coordinate. Results of evicted chunks never mark a reloaded chunk clean.
func (c *Chunks) apply(r meshing.MeshResult) {
	ch := c.store.GetChunk(r.Coord, false)
	if !c.track.accept(r, ch) {
		if r.Error != nil {
			c.logger.Warn("dropping failed chunk mesh", zap.Any("chunk", r.Coord), zap.Error(r.Error))
		}
		return
	}
	b := c.buffers[r.Coord]
	if b == nil {
		b = graphics.NewMeshBuffer(r.Mesh.Mesh)
		c.buffers[r.Coord] = b
	} else {
		b.Upload(r.Mesh.Mesh)
	}
	ch.MarkClean(r.Mesh.Version)
}

// prune frees buffers of chunks that left the store, and of coordinates
// whose chunk was replaced since the buffer was uploaded.
func (c *Chunks) prune() {
	for coord, b := range c.buffers {
		ch := c.store.GetChunk(coord, false)
		switch {
		case ch == nil:
			c.track.forget(coord)
		case c.track.replaced(ch):
			c.track.dropApplied(coord)
		default:
			continue
		}
		b.Delete()
		delete(c.buffers, coord)
	}
}
