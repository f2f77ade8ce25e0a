package world

// ChunkCoord addresses a chunk in chunk units. It doubles as an integer
// offset vector for neighbor directions.
type ChunkCoord struct {
	X, Y, Z int
}

// Add returns c+o.
func (c ChunkCoord) Add(o ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Less orders coordinates by X, then Z, then Y.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	return c.Y < o.Y
}

// BlockPos is an integer voxel position, either chunk-local or world-space
// depending on context.
type BlockPos struct {
	X, Y, Z int
}

// Add returns p+o.
func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// WorldOffset returns the world-space position of local voxel (0,0,0).
// Only X and Z are scaled by the chunk size; Y stays chunk-local.
func (c ChunkCoord) WorldOffset() BlockPos {
	return BlockPos{X: c.X * ChunkSizeX, Y: 0, Z: c.Z * ChunkSizeZ}
}

// ChunkOf returns the coordinate of the chunk containing world position (x,y,z)
// and the local position inside it.
func ChunkOf(x, y, z int) (ChunkCoord, BlockPos) {
	return ChunkCoord{X: floorDiv(x, ChunkSizeX), Y: floorDiv(y, ChunkSizeY), Z: floorDiv(z, ChunkSizeZ)},
		BlockPos{X: mod(x, ChunkSizeX), Y: mod(y, ChunkSizeY), Z: mod(z, ChunkSizeZ)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
