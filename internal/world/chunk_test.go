package world

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStartsEmptyAndAir(t *testing.T) {
	c := NewChunk(0, 0, 0)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, VoxelAir, c.GetVoxel(3, 100, 7))
	assert.Equal(t, 0, c.CountSolid())
}

func TestChunkSetGet(t *testing.T) {
	c := NewChunk(0, 0, 0)
	require.NoError(t, c.SetVoxel(1, 200, 15, VoxelStone))
	assert.Equal(t, VoxelStone, c.GetVoxel(1, 200, 15))
	assert.Equal(t, VoxelAir, c.GetVoxel(1, 201, 15))
	assert.False(t, c.IsEmpty())
}

func TestChunkEmptyFlagNotResetByAir(t *testing.T) {
	c := NewChunk(0, 0, 0)
	require.NoError(t, c.SetVoxel(0, 0, 0, VoxelDirt))
	require.NoError(t, c.SetVoxel(0, 0, 0, VoxelAir))
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 0, c.CountSolid())
}

func TestChunkOutOfBounds(t *testing.T) {
	c := NewChunk(0, 0, 0)
	for _, p := range []BlockPos{{-1, 0, 0}, {ChunkSizeX, 0, 0}, {0, ChunkSizeY, 0}, {0, 0, -1}} {
		err := c.SetVoxel(p.X, p.Y, p.Z, VoxelStone)
		assert.True(t, errors.Is(err, ErrOutOfBounds), "write at %v", p)
		assert.Equal(t, VoxelAir, c.GetVoxel(p.X, p.Y, p.Z))
	}
	assert.True(t, c.IsEmpty())
}

func TestChunkDirtyTracking(t *testing.T) {
	c := NewChunk(0, 0, 0)
	assert.True(t, c.IsDirty())

	v := c.Version()
	c.MarkClean(v)
	assert.False(t, c.IsDirty())

	require.NoError(t, c.SetVoxel(2, 2, 2, VoxelSand))
	assert.True(t, c.IsDirty())

	// a stale mesh must not hide the newer write
	c.MarkClean(v)
	assert.True(t, c.IsDirty())

	// rewriting the same value is not a change
	c.MarkClean(c.Version())
	require.NoError(t, c.SetVoxel(2, 2, 2, VoxelSand))
	assert.False(t, c.IsDirty())
}

func TestChunkFillClamps(t *testing.T) {
	c := NewChunk(0, 0, 0)
	c.Fill(BlockPos{-4, 0, -4}, BlockPos{1, 0, 1}, VoxelStone)
	assert.Equal(t, 4, c.CountSolid())
}

func TestSetNeighborVec(t *testing.T) {
	a := NewChunk(0, 0, 0)
	b := NewChunk(1, 0, 0)

	require.NoError(t, a.SetNeighborVec(ChunkCoord{X: 1}, b))
	assert.Same(t, b, a.Neighbor(DirRight))

	err := a.SetNeighborVec(ChunkCoord{X: 1, Z: 1}, b)
	assert.True(t, errors.Is(err, ErrInvalidDirection))
	err = a.SetNeighborVec(ChunkCoord{}, b)
	assert.True(t, errors.Is(err, ErrInvalidDirection))
}

func TestSetNeighborMarksDirty(t *testing.T) {
	a := NewChunk(0, 0, 0)
	a.MarkClean(a.Version())
	a.SetNeighbor(DirFront, NewChunk(0, 0, 1))
	assert.True(t, a.IsDirty())
}

func TestReleaseClearsNeighborSlots(t *testing.T) {
	a := NewChunk(0, 0, 0)
	b := NewChunk(1, 0, 0)
	a.SetNeighbor(DirRight, b)
	b.SetNeighbor(DirLeft, a)

	b.Release()

	assert.Nil(t, a.Neighbor(DirRight))
	assert.Nil(t, b.Neighbor(DirLeft))
	assert.True(t, b.Released())
}

func TestReleaseKeepsReplacedSlot(t *testing.T) {
	a := NewChunk(0, 0, 0)
	old := NewChunk(1, 0, 0)
	repl := NewChunk(1, 0, 0)
	old.SetNeighbor(DirLeft, a)
	a.SetNeighbor(DirRight, repl)

	old.Release()
	assert.Same(t, repl, a.Neighbor(DirRight))
}

func TestReadLockBlocksWriters(t *testing.T) {
	a := NewChunk(0, 0, 0)
	b := NewChunk(1, 0, 0)
	a.SetNeighbor(DirRight, b)
	b.SetNeighbor(DirLeft, a)

	unlock := a.ReadLock()
	done := make(chan struct{})
	go func() {
		_ = b.SetVoxel(0, 0, 0, VoxelStone)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("write to a locked neighbor completed while read lock was held")
	default:
	}
	unlock()
	<-done
	assert.Equal(t, VoxelStone, b.GetVoxel(0, 0, 0))
}

func TestConcurrentReadLocksOnAdjacentChunks(t *testing.T) {
	s := NewStore()
	a := s.GetChunk(ChunkCoord{}, true)
	b := s.GetChunk(ChunkCoord{X: 1}, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(4)
		go func() { defer wg.Done(); a.ReadLock()() }()
		go func() { defer wg.Done(); b.ReadLock()() }()
		go func(i int) { defer wg.Done(); _ = a.SetVoxel(i%ChunkSizeX, 0, 0, VoxelDirt) }(i)
		go func(i int) { defer wg.Done(); _ = b.SetVoxel(i%ChunkSizeX, 0, 0, VoxelDirt) }(i)
	}
	wg.Wait()
}
