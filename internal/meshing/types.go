package meshing

import (
	"voxelmesh/internal/world"
)

// VoxelReader reads a voxel by local coordinate.
type VoxelReader interface {
	VoxelAt(x, y, z int) world.VoxelType
}

// FaceVisibilityChecker decides whether the face of a local cell is exposed.
type FaceVisibilityChecker interface {
	ShouldRenderFace(x, y, z int, d world.Direction) bool
}

// Grid is a VoxelReader that also answers face visibility. *world.Chunk is one.
type Grid interface {
	VoxelReader
	FaceVisibilityChecker
}

// Extent is the size of a grid in cells.
type Extent struct {
	X, Y, Z int
}

// ChunkExtent is the extent of a world chunk.
var ChunkExtent = Extent{X: world.ChunkSizeX, Y: world.ChunkSizeY, Z: world.ChunkSizeZ}

// Volume returns the number of cells.
func (e Extent) Volume() int {
	return e.X * e.Y * e.Z
}

func (e Extent) axis(i int) int {
	switch i {
	case axisX:
		return e.X
	case axisY:
		return e.Y
	default:
		return e.Z
	}
}

// Face is a single unmerged voxel face at a world-space cell position.
type Face struct {
	Direction world.Direction
	Type      world.VoxelType
	Position  world.BlockPos
}

// MergedFace is a rectangle of same-type exposed faces. Origin is the
// world-space cell at the rectangle's minimum corner; Width runs along the
// sweep's U axis and Height along its V axis (see SweepAxes).
type MergedFace struct {
	Direction world.Direction
	Type      world.VoxelType
	Origin    world.BlockPos
	Width     int
	Height    int
}

// Area returns the number of cell faces covered.
func (f MergedFace) Area() int {
	return f.Width * f.Height
}

// Merged converts an unmerged face into a 1x1 merged face.
func (f Face) Merged() MergedFace {
	return MergedFace{Direction: f.Direction, Type: f.Type, Origin: f.Position, Width: 1, Height: 1}
}

const (
	axisX = 0
	axisY = 1
	axisZ = 2
)

// Sweep is the axis permutation used for one face direction: W is the normal
// axis the layers are stacked along, U and V span each layer.
type Sweep struct {
	W, U, V int
}

var sweeps = [world.NumDirections]Sweep{
	world.DirFront:  {W: axisZ, U: axisX, V: axisY},
	world.DirBack:   {W: axisZ, U: axisX, V: axisY},
	world.DirTop:    {W: axisY, U: axisX, V: axisZ},
	world.DirBottom: {W: axisY, U: axisX, V: axisZ},
	world.DirRight:  {W: axisX, U: axisZ, V: axisY},
	world.DirLeft:   {W: axisX, U: axisZ, V: axisY},
}

// SweepAxes returns the axis permutation for d. Axis indices are 0=X, 1=Y, 2=Z.
func SweepAxes(d world.Direction) Sweep {
	return sweeps[d]
}

// toXYZ maps layer coordinates back to (x,y,z).
func (s Sweep) toXYZ(w, u, v int) (x, y, z int) {
	var p [3]int
	p[s.W] = w
	p[s.U] = u
	p[s.V] = v
	return p[0], p[1], p[2]
}
