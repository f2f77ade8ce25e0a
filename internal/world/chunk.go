package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16

	// Section dimensions
	SectionHeight = 16
	NumSections   = ChunkSizeY / SectionHeight
	SectionVolume = ChunkSizeX * SectionHeight * ChunkSizeZ
)

var (
	// ErrOutOfBounds is returned when a write targets a cell outside the chunk.
	ErrOutOfBounds = errors.New("voxel position out of chunk bounds")
	// ErrInvalidDirection is returned for neighbor vectors that are not a unit axis.
	ErrInvalidDirection = errors.New("neighbor direction is not a unit axis vector")
)

var chunkSeq atomic.Uint64

// section is a lazily allocated 16-high slab of a chunk.
type section struct {
	voxels []VoxelType
}

// Chunk is a 16x256x16 grid of voxels. Neighbor slots are non-owning: a
// neighbor clears its slot in every adjacent chunk when it is released.
//
// Reads through VoxelAt and ShouldRenderFace are unsynchronized; callers that
// share chunks between goroutines hold ReadLock for the duration of the read.
type Chunk struct {
	X, Y, Z int

	id        uint64
	mu        sync.RWMutex
	sections  [NumSections]*section
	neighbors [NumDirections]*Chunk
	empty     bool
	released  bool

	version    atomic.Uint64
	cleanAfter atomic.Uint64
}

// NewChunk creates an all-Air chunk at the given chunk coordinates.
func NewChunk(x, y, z int) *Chunk {
	c := &Chunk{
		X:     x,
		Y:     y,
		Z:     z,
		id:    chunkSeq.Add(1),
		empty: true,
	}
	// new chunks start dirty
	c.version.Store(1)
	return c
}

// ID identifies this chunk instance. A chunk reloaded at the same coordinate
// gets a new ID.
func (c *Chunk) ID() uint64 {
	return c.id
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Y: c.Y, Z: c.Z}
}

// InBounds reports whether (x,y,z) is a valid local coordinate.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX &&
		y >= 0 && y < ChunkSizeY &&
		z >= 0 && z < ChunkSizeZ
}

// indexInSection converts local section coordinates (x, localY, z) to a flat index
func indexInSection(x, localY, z int) int {
	return (localY*ChunkSizeZ+z)*ChunkSizeX + x
}

// VoxelAt returns the voxel at local coordinates without locking.
// Out-of-bounds reads return Air.
func (c *Chunk) VoxelAt(x, y, z int) VoxelType {
	if !InBounds(x, y, z) {
		return VoxelAir
	}
	sec := c.sections[y/SectionHeight]
	if sec == nil {
		return VoxelAir
	}
	return sec.voxels[indexInSection(x, y%SectionHeight, z)]
}

// GetVoxel returns the voxel at local coordinates. Out-of-bounds reads return Air.
func (c *Chunk) GetVoxel(x, y, z int) VoxelType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.VoxelAt(x, y, z)
}

// SetVoxel writes a voxel at local coordinates. Writes outside the chunk are
// dropped and reported with ErrOutOfBounds.
func (c *Chunk) SetVoxel(x, y, z int, t VoxelType) error {
	if !InBounds(x, y, z) {
		return fmt.Errorf("set (%d,%d,%d) in chunk %v: %w", x, y, z, c.Coord(), ErrOutOfBounds)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	secIdx := y / SectionHeight
	sec := c.sections[secIdx]
	if sec == nil {
		if t == VoxelAir {
			return nil
		}
		sec = &section{voxels: make([]VoxelType, SectionVolume)}
		c.sections[secIdx] = sec
	}

	idx := indexInSection(x, y%SectionHeight, z)
	if sec.voxels[idx] == t {
		return nil
	}
	sec.voxels[idx] = t
	if t != VoxelAir {
		c.empty = false
	}
	c.version.Add(1)
	return nil
}

// Fill sets every cell in the inclusive box [min,max] to t, clamped to the chunk.
func (c *Chunk) Fill(min, max BlockPos, t VoxelType) {
	for y := max0(min.Y); y <= maxY(max.Y); y++ {
		for z := max0(min.Z); z <= maxZ(max.Z); z++ {
			for x := max0(min.X); x <= maxX(max.X); x++ {
				_ = c.SetVoxel(x, y, z, t)
			}
		}
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func maxX(v int) int { return min(v, ChunkSizeX-1) }
func maxY(v int) int { return min(v, ChunkSizeY-1) }
func maxZ(v int) int { return min(v, ChunkSizeZ-1) }

// IsEmpty reports whether no non-Air voxel was ever written. Writing Air back
// does not reset it.
func (c *Chunk) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.empty
}

// IsEmptyLocked is IsEmpty for callers already holding ReadLock.
func (c *Chunk) IsEmptyLocked() bool {
	return c.empty
}

// Version increases on every change that can affect the chunk's mesh:
// voxel writes and neighbor (un)registration.
func (c *Chunk) Version() uint64 {
	return c.version.Load()
}

// IsDirty reports whether the chunk changed since the last MarkClean.
func (c *Chunk) IsDirty() bool {
	return c.version.Load() != c.cleanAfter.Load()
}

// MarkClean records that a mesh for the given version was applied. A mesh
// built from an older version never clears a newer change.
func (c *Chunk) MarkClean(version uint64) {
	for {
		cur := c.cleanAfter.Load()
		if version <= cur {
			return
		}
		if c.cleanAfter.CompareAndSwap(cur, version) {
			return
		}
	}
}

// SetNeighbor registers other as the neighbor in direction d. A nil other
// clears the slot. The chunk is marked dirty because boundary faces change.
func (c *Chunk) SetNeighbor(d Direction, other *Chunk) {
	if !d.Valid() || other == c {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.neighbors[d] == other {
		return
	}
	c.neighbors[d] = other
	c.version.Add(1)
}

// SetNeighborVec registers a neighbor keyed by its unit direction vector.
func (c *Chunk) SetNeighborVec(v ChunkCoord, other *Chunk) error {
	d, ok := DirectionFromVector(v)
	if !ok {
		return fmt.Errorf("neighbor %v of chunk %v: %w", v, c.Coord(), ErrInvalidDirection)
	}
	c.SetNeighbor(d, other)
	return nil
}

// Neighbor returns the registered neighbor in direction d, or nil.
func (c *Chunk) Neighbor(d Direction) *Chunk {
	if !d.Valid() {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.neighbors[d]
}

// clearNeighbor drops slot d only if it still points at old.
func (c *Chunk) clearNeighbor(d Direction, old *Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.neighbors[d] == old {
		c.neighbors[d] = nil
		c.version.Add(1)
	}
}

// Release detaches the chunk from every neighbor that references it and
// clears its own slots. A released chunk is never read through a neighbor slot.
func (c *Chunk) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	old := c.neighbors
	c.neighbors = [NumDirections]*Chunk{}
	c.mu.Unlock()

	for d, n := range old {
		if n != nil {
			n.clearNeighbor(Direction(d).Opposite(), c)
		}
	}
}

// Released reports whether Release was called.
func (c *Chunk) Released() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.released
}

// ReadLock read-locks the chunk and every registered neighbor, in a global
// order so concurrent builds over adjacent chunks cannot deadlock. The returned
// function releases all of them.
func (c *Chunk) ReadLock() func() {
	for {
		c.mu.RLock()
		snapshot := c.neighbors
		c.mu.RUnlock()

		set := []*Chunk{c}
		for _, n := range snapshot {
			if n != nil {
				set = append(set, n)
			}
		}
		sort.Slice(set, func(i, j int) bool { return set[i].id < set[j].id })
		set = dedupe(set)

		for _, m := range set {
			m.mu.RLock()
		}
		if c.neighbors == snapshot {
			return func() {
				for i := len(set) - 1; i >= 0; i-- {
					set[i].mu.RUnlock()
				}
			}
		}
		// neighbors changed between snapshot and lock; retry
		for i := len(set) - 1; i >= 0; i-- {
			set[i].mu.RUnlock()
		}
	}
}

func dedupe(sorted []*Chunk) []*Chunk {
	out := make([]*Chunk, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && sorted[i-1] == m {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CountSolid returns the number of non-Air voxels.
func (c *Chunk) CountSolid() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, sec := range c.sections {
		if sec == nil {
			continue
		}
		for _, v := range sec.voxels {
			if v != VoxelAir {
				n++
			}
		}
	}
	return n
}
