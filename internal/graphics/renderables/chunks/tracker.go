package chunks

import (
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"
)

// appliedMesh identifies the uploaded mesh of a coordinate: which chunk
// instance it was built from, and at which version.
type appliedMesh struct {
	chunkID uint64
	version uint64
}

// tracker records which chunks have a mesh job in flight and which chunk
// instance and version each uploaded mesh was built from. Entries carry the
// chunk ID because a coordinate can be evicted and reloaded with a fresh
// chunk whose versions start over. It is owned by the render thread.
type tracker struct {
	pending map[world.ChunkCoord]uint64
	applied map[world.ChunkCoord]appliedMesh
}

func newTracker() *tracker {
	return &tracker{
		pending: make(map[world.ChunkCoord]uint64),
		applied: make(map[world.ChunkCoord]appliedMesh),
	}
}

// needsMesh reports whether c changed since its last applied mesh and no job
// for this chunk instance is outstanding.
func (t *tracker) needsMesh(c *world.Chunk) bool {
	if c == nil || c.Released() || !c.IsDirty() {
		return false
	}
	id, busy := t.pending[c.Coord()]
	return !busy || id != c.ID()
}

func (t *tracker) submitted(c *world.Chunk) {
	t.pending[c.Coord()] = c.ID()
}

// accept clears the pending mark for the result's chunk and reports whether
// the mesh should replace the uploaded one. current is the chunk now stored
// at the result's coordinate. Failed builds, meshes of a chunk that is no
// longer current and meshes older than the applied version are rejected.
func (t *tracker) accept(r meshing.MeshResult, current *world.Chunk) bool {
	if id, ok := t.pending[r.Coord]; ok && id == r.ChunkID {
		delete(t.pending, r.Coord)
	}
	if r.Error != nil || r.Mesh == nil {
		return false
	}
	if current == nil || current.ID() != r.ChunkID {
		return false
	}
	if prev, ok := t.applied[r.Coord]; ok && prev.chunkID == r.ChunkID && r.Mesh.Version <= prev.version {
		return false
	}
	t.applied[r.Coord] = appliedMesh{chunkID: r.ChunkID, version: r.Mesh.Version}
	return true
}

// replaced reports whether the applied mesh at c's coordinate was built from
// a different chunk instance.
func (t *tracker) replaced(c *world.Chunk) bool {
	prev, ok := t.applied[c.Coord()]
	return ok && prev.chunkID != c.ID()
}

func (t *tracker) dropApplied(coord world.ChunkCoord) {
	delete(t.applied, coord)
}

func (t *tracker) forget(coord world.ChunkCoord) {
	delete(t.pending, coord)
	delete(t.applied, coord)
}
