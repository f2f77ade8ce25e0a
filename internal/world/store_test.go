package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWiresNeighbors(t *testing.T) {
	s := NewStore()
	a := s.GetChunk(ChunkCoord{}, true)
	b := s.GetChunk(ChunkCoord{Z: 1}, true)
	c := s.GetChunk(ChunkCoord{X: 5}, true)

	assert.Same(t, b, a.Neighbor(DirFront))
	assert.Same(t, a, b.Neighbor(DirBack))
	assert.Nil(t, c.Neighbor(DirLeft))
	assert.Equal(t, 3, s.Len())
}

func TestStoreAddDuplicate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(NewChunk(0, 0, 0)))
	err := s.Add(NewChunk(0, 0, 0))
	assert.True(t, errors.Is(err, ErrChunkExists))
}

func TestStoreRemoveUnregisters(t *testing.T) {
	s := NewStore()
	a := s.GetChunk(ChunkCoord{}, true)
	b := s.GetChunk(ChunkCoord{X: 1}, true)

	assert.True(t, s.Remove(b.Coord()))
	assert.False(t, s.Remove(b.Coord()))
	assert.Nil(t, a.Neighbor(DirRight))
	assert.Nil(t, s.GetChunk(b.Coord(), false))
}

func TestStoreWorldCoordinates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(-1, 3, 17, VoxelWood))

	assert.Equal(t, VoxelWood, s.Get(-1, 3, 17))
	c := s.GetChunk(ChunkCoord{X: -1, Z: 1}, false)
	require.NotNil(t, c)
	assert.Equal(t, VoxelWood, c.GetVoxel(ChunkSizeX-1, 3, 1))
	assert.Equal(t, VoxelAir, s.Get(100, 3, 100))
}

func TestStoreBorderWriteDirtiesNeighbor(t *testing.T) {
	s := NewStore()
	a := s.GetChunk(ChunkCoord{}, true)
	b := s.GetChunk(ChunkCoord{X: 1}, true)
	a.MarkClean(a.Version())
	b.MarkClean(b.Version())

	require.NoError(t, s.Set(ChunkSizeX-1, 0, 5, VoxelStone))
	assert.True(t, a.IsDirty())
	assert.True(t, b.IsDirty())

	b.MarkClean(b.Version())
	require.NoError(t, s.Set(5, 0, 5, VoxelStone))
	assert.False(t, b.IsDirty())
}

func TestStoreCoordsOrdered(t *testing.T) {
	s := NewStore()
	for _, c := range []ChunkCoord{{X: 1}, {X: -1, Z: 2}, {X: -1}, {Z: 3}} {
		s.GetChunk(c, true)
	}
	assert.Equal(t, []ChunkCoord{{X: -1}, {X: -1, Z: 2}, {Z: 3}, {X: 1}}, s.Coords())
	assert.Len(t, s.Chunks(), 4)
}

func TestChunkOf(t *testing.T) {
	coord, local := ChunkOf(-17, 300, 31)
	assert.Equal(t, ChunkCoord{X: -2, Y: 1, Z: 1}, coord)
	assert.Equal(t, BlockPos{X: 15, Y: 44, Z: 15}, local)
	assert.Equal(t, BlockPos{X: -32, Y: 0, Z: 16}, coord.WorldOffset())
}
