package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrChunkExists is returned when adding a chunk over an occupied coordinate.
var ErrChunkExists = errors.New("chunk already registered")

// Store owns chunks and keeps their neighbor slots consistent. Adding a chunk
// wires it to the six face-adjacent chunks; removing one unregisters it from
// them before release.
type Store struct {
	chunks map[ChunkCoord]*Chunk
	mu     sync.RWMutex
}

// NewStore creates an empty chunk store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Add registers c and links it with its existing neighbors.
func (s *Store) Add(c *Chunk) error {
	coord := c.Coord()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[coord]; ok {
		return fmt.Errorf("add chunk %v: %w", coord, ErrChunkExists)
	}
	s.chunks[coord] = c

	// wire under the store lock so a concurrent Remove cannot leave a stale slot
	for _, d := range Directions {
		if n := s.chunks[coord.Add(d.Vector())]; n != nil {
			c.SetNeighbor(d, n)
			n.SetNeighbor(d.Opposite(), c)
		}
	}
	return nil
}

// GetChunk returns the chunk at the coordinate. If it does not exist and
// create is true, an empty chunk is created and wired in.
func (s *Store) GetChunk(coord ChunkCoord, create bool) *Chunk {
	s.mu.RLock()
	c, ok := s.chunks[coord]
	s.mu.RUnlock()
	if ok || !create {
		return c
	}

	c = NewChunk(coord.X, coord.Y, coord.Z)
	if err := s.Add(c); err != nil {
		// lost a race with another creator
		return s.GetChunk(coord, false)
	}
	return c
}

// Remove unregisters and releases the chunk at coord.
func (s *Store) Remove(coord ChunkCoord) bool {
	s.mu.Lock()
	c, ok := s.chunks[coord]
	if ok {
		delete(s.chunks, coord)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	c.Release()
	return true
}

// Len returns the number of registered chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Coords returns every registered coordinate in a stable order.
func (s *Store) Coords() []ChunkCoord {
	s.mu.RLock()
	out := make([]ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		out = append(out, coord)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Chunks returns every registered chunk ordered by coordinate.
func (s *Store) Chunks() []*Chunk {
	coords := s.Coords()
	out := make([]*Chunk, 0, len(coords))
	for _, coord := range coords {
		if c := s.GetChunk(coord, false); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the voxel at world coordinates. Unloaded chunks read as Air.
func (s *Store) Get(x, y, z int) VoxelType {
	coord, local := ChunkOf(x, y, z)
	c := s.GetChunk(coord, false)
	if c == nil {
		return VoxelAir
	}
	return c.GetVoxel(local.X, local.Y, local.Z)
}

// Set writes the voxel at world coordinates, creating the chunk if needed.
// Neighbors sharing the touched border are marked dirty.
func (s *Store) Set(x, y, z int, t VoxelType) error {
	coord, local := ChunkOf(x, y, z)
	c := s.GetChunk(coord, true)
	before := c.Version()
	if err := c.SetVoxel(local.X, local.Y, local.Z, t); err != nil {
		return err
	}
	if c.Version() == before {
		return nil
	}

	touch := func(d Direction) {
		if n := c.Neighbor(d); n != nil {
			n.version.Add(1)
		}
	}
	if local.X == 0 {
		touch(DirLeft)
	} else if local.X == ChunkSizeX-1 {
		touch(DirRight)
	}
	if local.Y == 0 {
		touch(DirBottom)
	} else if local.Y == ChunkSizeY-1 {
		touch(DirTop)
	}
	if local.Z == 0 {
		touch(DirBack)
	} else if local.Z == ChunkSizeZ-1 {
		touch(DirFront)
	}
	return nil
}
