package meshing

import (
	"context"

	"voxelmesh/internal/world"
)

// BuildConfig selects how a chunk is meshed.
type BuildConfig struct {
	// Greedy merges faces into rectangles; false emits one quad per cell face.
	Greedy bool
	// ParallelDirections sweeps the six directions concurrently (greedy only).
	ParallelDirections bool
	// VoxelSize is the world-space cell size used by the emitter.
	VoxelSize float32
}

// DefaultBuildConfig returns the greedy, sequential, unit-size configuration.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{Greedy: true, VoxelSize: world.VoxelSize}
}

// ChunkMesh is the emitted geometry of a chunk and the chunk instance and
// version it was built from.
type ChunkMesh struct {
	Coord   world.ChunkCoord
	ChunkID uint64
	Version uint64
	Mesh    *Mesh
}

// MeshChunk read-locks the chunk and its neighbors, meshes it and emits the
// geometry. Chunks that never held a solid voxel produce an empty mesh
// without sweeping.
func MeshChunk(ctx context.Context, c *world.Chunk, cfg BuildConfig, opts ...Option) (*ChunkMesh, error) {
	unlock := c.ReadLock()
	defer unlock()

	out := &ChunkMesh{Coord: c.Coord(), ChunkID: c.ID(), Version: c.Version()}
	emitter := NewEmitter(cfg.VoxelSize)

	if c.IsEmptyLocked() {
		out.Mesh = &Mesh{}
		return out, nil
	}

	switch {
	case !cfg.Greedy:
		faces := BuildFaces(ChunkExtent, c, c, out.Coord, opts...)
		out.Mesh = emitter.BuildFaces(faces)
	case cfg.ParallelDirections:
		faces, err := BuildGreedyMeshConcurrent(ctx, ChunkExtent, c, c, out.Coord, opts...)
		if err != nil {
			return nil, err
		}
		out.Mesh = emitter.Build(faces)
	default:
		faces := BuildGreedyMesh(ChunkExtent, c, c, out.Coord, opts...)
		out.Mesh = emitter.Build(faces)
	}
	return out, nil
}
