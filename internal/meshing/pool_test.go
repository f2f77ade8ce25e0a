package meshing

import (
	"context"
	"testing"
	"time"

	"voxelmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolMeshAll(t *testing.T) {
	s := world.NewStore()
	for x := 0; x < 3; x++ {
		for z := 0; z < 2; z++ {
			ch := s.GetChunk(world.ChunkCoord{X: x, Z: z}, true)
			ch.Fill(world.BlockPos{}, world.BlockPos{X: 15, Y: 0, Z: 15}, world.VoxelStone)
		}
	}

	var builds int
	done := make(chan struct{}, 16)
	pool := NewWorkerPool(3, 8, DefaultBuildConfig(), nil, WithObserver(ObserverFunc(func(BuildStats) { done <- struct{}{} })))
	defer pool.Shutdown()

	chunks := s.Chunks()
	results, err := pool.MeshAll(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, results, len(chunks))

	for i, r := range results {
		require.NoError(t, r.Error)
		assert.Equal(t, chunks[i].Coord(), r.Coord)
		assert.False(t, r.Mesh.Mesh.Empty())
	}
	for len(done) > 0 {
		<-done
		builds++
	}
	assert.Equal(t, len(chunks), builds)

	// the 3x2 slab: top and bottom merge per chunk, sides only on the outer rim
	total := 0
	for _, r := range results {
		total += r.Mesh.Mesh.FaceCount()
	}
	assert.Equal(t, 6*2+10, total)
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1, DefaultBuildConfig(), nil)
	pool.Shutdown()
	pool.Shutdown()

	assert.False(t, pool.SubmitJob(MeshJob{Chunk: world.NewChunk(0, 0, 0)}))
	err := pool.SubmitJobBlocking(context.Background(), MeshJob{Chunk: world.NewChunk(0, 0, 0)})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestWorkerPoolSingleJob(t *testing.T) {
	pool := NewWorkerPool(2, 4, DefaultBuildConfig(), nil)
	defer pool.Shutdown()

	ch := world.NewChunk(0, 0, 0)
	require.NoError(t, ch.SetVoxel(3, 3, 3, world.VoxelLeaves))

	results := make(chan MeshResult, 1)
	require.True(t, pool.SubmitJob(MeshJob{Chunk: ch, ResultChan: results}))

	select {
	case r := <-results:
		require.NoError(t, r.Error)
		assert.Equal(t, 6, r.Mesh.Mesh.FaceCount())
		assert.Equal(t, ch.ID(), r.ChunkID)
		ch.MarkClean(r.Mesh.Version)
		assert.False(t, ch.IsDirty())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for mesh result")
	}
	assert.Equal(t, 2, pool.Workers())
}

func TestWorkerPoolNilChunk(t *testing.T) {
	pool := NewWorkerPool(1, 1, DefaultBuildConfig(), nil)
	defer pool.Shutdown()

	results := make(chan MeshResult, 1)
	require.NoError(t, pool.SubmitJobBlocking(context.Background(), MeshJob{ResultChan: results}))
	r := <-results
	assert.Error(t, r.Error)
}
