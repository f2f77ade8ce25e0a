package world

// ShouldRenderFace decides whether the face of local cell (x,y,z) facing d
// must be drawn. The caller holds ReadLock when the chunk is shared.
//
// Air cells never render. Otherwise the face renders iff the neighbor cell is
// transparent, except between two cells of the same transparent type.
func (c *Chunk) ShouldRenderFace(x, y, z int, d Direction) bool {
	current := c.VoxelAt(x, y, z)
	if current == VoxelAir || !d.Valid() {
		return false
	}

	dx, dy, dz := d.Offset()
	neighbor := c.voxelWorldSpace(x+dx, y+dy, z+dz)

	if !neighbor.IsTransparent() {
		return false
	}
	return neighbor != current
}

// voxelWorldSpace reads a cell that may lie one step outside the chunk,
// delegating to the registered neighbor. Missing neighbors read as Air.
func (c *Chunk) voxelWorldSpace(x, y, z int) VoxelType {
	if InBounds(x, y, z) {
		return c.VoxelAt(x, y, z)
	}

	var off ChunkCoord
	x, off.X = wrapAxis(x, ChunkSizeX)
	y, off.Y = wrapAxis(y, ChunkSizeY)
	z, off.Z = wrapAxis(z, ChunkSizeZ)

	d, ok := DirectionFromVector(off)
	if !ok {
		// diagonal or farther than one chunk away
		return VoxelAir
	}
	n := c.neighbors[d]
	if n == nil || n.released {
		return VoxelAir
	}
	return n.VoxelAt(x, y, z)
}

// wrapAxis maps v into [0,size) and reports which side it left through.
func wrapAxis(v, size int) (int, int) {
	switch {
	case v < 0:
		return v + size, -1
	case v >= size:
		return v - size, 1
	default:
		return v, 0
	}
}
