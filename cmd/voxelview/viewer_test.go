package main

import (
	"path/filepath"
	"testing"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/graphics"
	"voxelmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	cfg := config.Default()
	cfg.World.ViewRadius = 1
	sc, err := buildScene(cfg.World.ViewRadius, 2, 64, nil)
	require.NoError(t, err)
	t.Cleanup(sc.Close)
	return &viewer{
		cfg:      cfg,
		savePath: filepath.Join(t.TempDir(), "config.yaml"),
		scene:    sc,
		log:      zap.NewNop(),
		camera:   graphics.NewCamera(800, 600),
	}
}

func TestViewerStreamsAroundMovingCenter(t *testing.T) {
	v := newTestViewer(t)
	store := v.scene.store
	require.Equal(t, 9, store.Len())

	v.move(world.DirRight)
	v.move(world.DirRight)
	assert.Equal(t, world.ChunkCoord{X: 2}, v.center)
	assert.InDelta(t, float32(2*world.ChunkSizeX+world.ChunkSizeX/2), v.camera.Target.X(), 1e-4)

	require.Eventually(t, func() bool {
		v.stream()
		return store.GetChunk(world.ChunkCoord{X: 3}, false) != nil && v.scene.streamer.Pending() == 0
	}, 2*time.Second, 5*time.Millisecond)

	// radius 1 plus one chunk of slack around X=2
	assert.Nil(t, store.GetChunk(world.ChunkCoord{X: -1}, false))
	assert.Nil(t, store.GetChunk(world.ChunkCoord{X: -1, Z: 1}, false))
	assert.NotNil(t, store.GetChunk(world.ChunkCoord{X: 0}, false))
}

func TestViewerPlacePillarOnBorder(t *testing.T) {
	v := newTestViewer(t)
	store := v.scene.store
	left, right := groundLevel(store, -1, 0), groundLevel(store, 0, 0)
	west := store.GetChunk(world.ChunkCoord{X: -1}, false)
	west.MarkClean(west.Version())
	require.False(t, west.IsDirty())

	v.placePillar()
	assert.Equal(t, world.VoxelStone, store.Get(-1, left, 0))
	assert.Equal(t, world.VoxelStone, store.Get(0, right, 0))
	assert.True(t, west.IsDirty())

	v.cfg.World.PlaceType = "wood"
	v.placePillar()
	assert.Equal(t, world.VoxelWood, store.Get(-1, left+1, 0))

	v.cfg.World.PlaceType = "no-such-type"
	v.placePillar()
	assert.Equal(t, world.VoxelStone, store.Get(-1, left+2, 0))
}

func TestViewerSaveConfig(t *testing.T) {
	v := newTestViewer(t)
	v.camera.Radius = 21

	v.saveConfig()
	loaded, err := config.Load(&config.Flags{ConfigPath: v.savePath})
	require.NoError(t, err)
	assert.Equal(t, float32(21), loaded.Render.OrbitRadius)
	assert.Equal(t, 1, loaded.World.ViewRadius)
}
