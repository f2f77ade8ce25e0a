package main

import (
	"math"

	"voxelmesh/internal/world"

	"go.uber.org/zap"
)

const waterLevel = 7

// terrainHeight is the first air cell above the ground column at (x, z).
func terrainHeight(x, z int) int {
	h := 8 + 3*math.Sin(float64(x)/6) + 3*math.Cos(float64(z)/7)
	return int(math.Floor(h))
}

// terrain populates a chunk with stone, dirt and a grass or sand top, and
// floods every column below the water level.
var terrain = world.PopulatorFunc(func(c *world.Chunk) error {
	for lz := 0; lz < world.ChunkSizeZ; lz++ {
		for lx := 0; lx < world.ChunkSizeX; lx++ {
			h := terrainHeight(c.X*world.ChunkSizeX+lx, c.Z*world.ChunkSizeZ+lz)
			for y := 0; y < h; y++ {
				if err := c.SetVoxel(lx, y, lz, groundType(y, h)); err != nil {
					return err
				}
			}
			for y := h; y <= waterLevel; y++ {
				if err := c.SetVoxel(lx, y, lz, world.VoxelWater); err != nil {
					return err
				}
			}
		}
	}
	return nil
})

// scene is the streamed demo world.
type scene struct {
	store    *world.Store
	streamer *world.Streamer
}

// buildScene synchronously loads the chunks within radius of the origin and
// plants a tree. The streamer stays running for background loading; Close
// stops it. Every voxel type appears at least once.
func buildScene(radius, workers, queue int, log *zap.Logger) (*scene, error) {
	store := world.NewStore()
	s := &scene{
		store:    store,
		streamer: world.NewStreamer(store, terrain, workers, queue, log),
	}
	if err := s.streamer.LoadAround(0, 0, radius); err != nil {
		s.Close()
		return nil, err
	}
	if err := plantTree(store, 4, 4); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *scene) Close() {
	s.streamer.Close()
}

// groundLevel returns the first empty cell above the highest non-Air voxel of
// column (x, z), or 0 for an empty or unloaded column.
func groundLevel(store *world.Store, x, z int) int {
	for y := world.ChunkSizeY - 1; y >= 0; y-- {
		if store.Get(x, y, z) != world.VoxelAir {
			return y + 1
		}
	}
	return 0
}

func groundType(y, h int) world.VoxelType {
	switch {
	case y < h-4:
		return world.VoxelStone
	case y < h-1:
		return world.VoxelDirt
	case h-1 <= waterLevel+1:
		return world.VoxelSand
	default:
		return world.VoxelGrass
	}
}

func plantTree(store *world.Store, x, z int) error {
	base := groundLevel(store, x, z)
	const trunk = 4
	for y := base; y < base+trunk; y++ {
		if err := store.Set(x, y, z, world.VoxelWood); err != nil {
			return err
		}
	}

	top := base + trunk
	for dy := -1; dy <= 1; dy++ {
		r := 2
		if dy == 1 {
			r = 1
		}
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if dy < 0 && dx == 0 && dz == 0 {
					continue // trunk
				}
				if err := store.Set(x+dx, top+dy, z+dz, world.VoxelLeaves); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
