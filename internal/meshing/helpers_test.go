package meshing

import (
	"math/rand"

	"voxelmesh/internal/world"
)

// testGrid is a standalone grid with no neighbors: everything outside reads as Air.
type testGrid struct {
	ext   Extent
	cells []world.VoxelType
}

func newTestGrid(x, y, z int) *testGrid {
	return &testGrid{ext: Extent{X: x, Y: y, Z: z}, cells: make([]world.VoxelType, x*y*z)}
}

func (g *testGrid) inside(x, y, z int) bool {
	return x >= 0 && x < g.ext.X && y >= 0 && y < g.ext.Y && z >= 0 && z < g.ext.Z
}

func (g *testGrid) set(x, y, z int, t world.VoxelType) {
	g.cells[(y*g.ext.Z+z)*g.ext.X+x] = t
}

func (g *testGrid) VoxelAt(x, y, z int) world.VoxelType {
	if !g.inside(x, y, z) {
		return world.VoxelAir
	}
	return g.cells[(y*g.ext.Z+z)*g.ext.X+x]
}

func (g *testGrid) ShouldRenderFace(x, y, z int, d world.Direction) bool {
	cur := g.VoxelAt(x, y, z)
	if cur == world.VoxelAir {
		return false
	}
	dx, dy, dz := d.Offset()
	n := g.VoxelAt(x+dx, y+dy, z+dz)
	return n.IsTransparent() && n != cur
}

func randomGrid(seed int64, x, y, z int, fill float64) *testGrid {
	r := rand.New(rand.NewSource(seed))
	types := []world.VoxelType{world.VoxelStone, world.VoxelDirt, world.VoxelWater, world.VoxelLeaves}
	g := newTestGrid(x, y, z)
	for i := range g.cells {
		if r.Float64() < fill {
			g.cells[i] = types[r.Intn(len(types))]
		}
	}
	return g
}

// cellsOf expands a merged face into its grid-local cell positions.
func cellsOf(f MergedFace, offset world.BlockPos) []world.BlockPos {
	sw := SweepAxes(f.Direction)
	base := [3]int{f.Origin.X - offset.X, f.Origin.Y - offset.Y, f.Origin.Z - offset.Z}
	out := make([]world.BlockPos, 0, f.Area())
	for j := 0; j < f.Height; j++ {
		for k := 0; k < f.Width; k++ {
			p := base
			p[sw.U] += k
			p[sw.V] += j
			out = append(out, world.BlockPos{X: p[0], Y: p[1], Z: p[2]})
		}
	}
	return out
}

func countByDirection(faces []MergedFace) map[world.Direction]int {
	out := make(map[world.Direction]int)
	for _, f := range faces {
		out[f.Direction]++
	}
	return out
}
