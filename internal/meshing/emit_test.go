package meshing

import (
	"testing"

	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitWindingFacesOutward(t *testing.T) {
	e := NewEmitter(1)
	for _, d := range world.Directions {
		for _, size := range [][2]int{{1, 1}, {3, 2}, {1, 5}} {
			f := MergedFace{Direction: d, Type: world.VoxelStone, Origin: world.BlockPos{X: 2, Y: 3, Z: 4}, Width: size[0], Height: size[1]}
			verts, idx := e.EmitMergedFace(f, 0)

			for tri := 0; tri < 2; tri++ {
				a := verts[idx[tri*3]].Position
				b := verts[idx[tri*3+1]].Position
				c := verts[idx[tri*3+2]].Position
				n := b.Sub(a).Cross(c.Sub(a))
				assert.Greater(t, n.Dot(d.Normal()), float32(0), "%v %v triangle %d", d, size, tri)
			}
			for _, v := range verts {
				assert.Equal(t, d.Normal(), v.Normal)
			}
		}
	}
}

func TestEmitUnitFaceMatchesCell(t *testing.T) {
	e := NewEmitter(1)
	verts, _ := e.EmitFace(Face{Direction: world.DirFront, Type: world.VoxelGrass, Position: world.BlockPos{X: 1, Y: 2, Z: 3}}, 0)

	assert.Equal(t, mgl32.Vec3{1, 2, 4}, verts[0].Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 4}, verts[1].Position)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, verts[2].Position)
	assert.Equal(t, mgl32.Vec3{1, 3, 4}, verts[3].Position)

	assert.Equal(t, mgl32.Vec2{0, 0}, verts[0].TexCoord)
	assert.Equal(t, mgl32.Vec2{1, 0}, verts[1].TexCoord)
	assert.Equal(t, mgl32.Vec2{1, 1}, verts[2].TexCoord)
	assert.Equal(t, mgl32.Vec2{0, 1}, verts[3].TexCoord)
}

func TestEmitNegativeFaceSitsOnNearSide(t *testing.T) {
	e := NewEmitter(1)
	verts, _ := e.EmitFace(Face{Direction: world.DirLeft, Type: world.VoxelDirt, Position: world.BlockPos{X: 5}}, 0)
	for _, v := range verts {
		assert.Equal(t, float32(5), v.Position.X())
	}
	verts, _ = e.EmitFace(Face{Direction: world.DirRight, Type: world.VoxelDirt, Position: world.BlockPos{X: 5}}, 0)
	for _, v := range verts {
		assert.Equal(t, float32(6), v.Position.X())
	}
}

func TestEmitMergedSizeScalesPlaneAxes(t *testing.T) {
	e := NewEmitter(0.5)
	f := MergedFace{Direction: world.DirTop, Type: world.VoxelSand, Origin: world.BlockPos{X: 2, Y: 0, Z: 2}, Width: 4, Height: 2}
	verts, _ := e.EmitMergedFace(f, 0)

	minP, maxP := verts[0].Position, verts[0].Position
	for _, v := range verts {
		for i := 0; i < 3; i++ {
			minP[i] = min(minP[i], v.Position[i])
			maxP[i] = max(maxP[i], v.Position[i])
		}
		// texture is not tiled across merged faces
		assert.True(t, v.TexCoord.X() == 0 || v.TexCoord.X() == 1)
		assert.True(t, v.TexCoord.Y() == 0 || v.TexCoord.Y() == 1)
	}
	assert.Equal(t, mgl32.Vec3{1, 0.5, 1}, minP)
	assert.Equal(t, mgl32.Vec3{3, 0.5, 2}, maxP)
}

func TestEmitColorFromType(t *testing.T) {
	e := NewEmitter(1)
	verts, _ := e.EmitFace(Face{Direction: world.DirTop, Type: world.VoxelWater}, 0)
	for _, v := range verts {
		assert.Equal(t, world.VoxelWater.Color(), v.Color)
	}
	verts, _ = e.EmitFace(Face{Direction: world.DirTop, Type: world.VoxelType(200)}, 0)
	assert.Equal(t, world.UnknownColor, verts[0].Color)
}

func TestEmitIndicesRunningBase(t *testing.T) {
	faces := []MergedFace{
		{Direction: world.DirTop, Type: world.VoxelStone, Width: 1, Height: 1},
		{Direction: world.DirBottom, Type: world.VoxelStone, Width: 2, Height: 1},
		{Direction: world.DirLeft, Type: world.VoxelStone, Width: 1, Height: 3},
	}
	m := NewEmitter(1).Build(faces)

	require.Len(t, m.Vertices, 12)
	assert.Equal(t, []uint32{
		0, 1, 2, 0, 2, 3,
		4, 5, 6, 4, 6, 7,
		8, 9, 10, 8, 10, 11,
	}, m.Indices)
	assert.Equal(t, int32(18), m.IndexCount())
	assert.Equal(t, 3, m.FaceCount())
	assert.False(t, m.Empty())
}

func TestMeshInterleaved(t *testing.T) {
	m := NewEmitter(1).BuildFaces([]Face{{Direction: world.DirFront, Type: world.VoxelStone}})
	flat := m.Interleaved()
	require.Len(t, flat, 4*VertexStride)

	v := m.Vertices[2]
	row := flat[2*VertexStride : 3*VertexStride]
	assert.Equal(t, v.Position[:], row[PositionOffset:PositionOffset+3])
	assert.Equal(t, v.Normal[:], row[NormalOffset:NormalOffset+3])
	assert.Equal(t, v.TexCoord[:], row[TexCoordOffset:TexCoordOffset+2])
	assert.Equal(t, v.Color[:], row[ColorOffset:ColorOffset+4])
}

func TestEmptyMesh(t *testing.T) {
	m := NewEmitter(1).Build(nil)
	assert.True(t, m.Empty())
	assert.Empty(t, m.Interleaved())

	var nilMesh *Mesh
	assert.True(t, nilMesh.Empty())
	assert.Equal(t, int32(0), nilMesh.IndexCount())
}

func TestNewEmitterDefaultsSize(t *testing.T) {
	assert.Equal(t, float32(world.VoxelSize), NewEmitter(0).VoxelSize)
}
