package meshing

import (
	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32 per interleaved vertex
// (pos.xyz + normal.xyz + uv + rgba).
const VertexStride = 12

// Attribute offsets in floats within one interleaved vertex.
const (
	PositionOffset = 0
	NormalOffset   = 3
	TexCoordOffset = 6
	ColorOffset    = 8
)

// IndicesPerFace is the index count of one quad (two triangles).
const IndicesPerFace = 6

// VerticesPerFace is the vertex count of one quad; vertices are not shared
// between faces.
const VerticesPerFace = 4

// Vertex is one corner of an emitted quad.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec4
}

// Mesh is the flat vertex and index data of a triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether there is nothing to draw.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// FaceCount returns the number of quads in the mesh.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices) / VerticesPerFace
}

// IndexCount is the element count of the triangle-list draw call.
func (m *Mesh) IndexCount() int32 {
	if m == nil {
		return 0
	}
	return int32(len(m.Indices))
}

// Interleaved flattens the vertices into VertexStride floats each, ready for
// upload to a vertex buffer.
func (m *Mesh) Interleaved() []float32 {
	if m == nil {
		return nil
	}
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
		)
	}
	return out
}

// corner is a quad corner in sweep-plane units: cu along U, cv along V.
type corner struct {
	cu, cv float32
}

var (
	// u then v: counter-clockwise when U x V points along the normal
	windingUV = [4]corner{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	// v then u: counter-clockwise when U x V points against the normal
	windingVU = [4]corner{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
)

// quadCorners fixes the winding per direction so every quad is
// counter-clockwise seen from its outward normal.
var quadCorners = [world.NumDirections][4]corner{
	world.DirFront:  windingUV, // X x Y = +Z
	world.DirBack:   windingVU,
	world.DirTop:    windingVU, // X x Z = -Y
	world.DirBottom: windingUV,
	world.DirRight:  windingVU, // Z x Y = -X
	world.DirLeft:   windingUV,
}

// Emitter turns faces into vertices and indices.
type Emitter struct {
	// VoxelSize is the world-space edge length of one cell.
	VoxelSize float32
}

// NewEmitter creates an emitter for the given voxel size. Non-positive sizes
// fall back to world.VoxelSize.
func NewEmitter(voxelSize float32) *Emitter {
	if voxelSize <= 0 {
		voxelSize = world.VoxelSize
	}
	return &Emitter{VoxelSize: voxelSize}
}

// FaceIndices returns the two-triangle index pattern of a quad whose first
// vertex is at base.
func FaceIndices(base uint32) [IndicesPerFace]uint32 {
	return [IndicesPerFace]uint32{
		base, base + 1, base + 2,
		base, base + 2, base + 3,
	}
}

// EmitFace emits a single-cell face.
func (e *Emitter) EmitFace(f Face, base uint32) ([VerticesPerFace]Vertex, [IndicesPerFace]uint32) {
	return e.EmitMergedFace(f.Merged(), base)
}

// EmitMergedFace emits a merged rectangle. Width scales the U axis and Height
// the V axis of the face's sweep; the normal axis sits at the cell's near or
// far side. Texture coordinates are the unit square regardless of size.
func (e *Emitter) EmitMergedFace(f MergedFace, base uint32) ([VerticesPerFace]Vertex, [IndicesPerFace]uint32) {
	s := e.VoxelSize
	sw := SweepAxes(f.Direction)
	origin := mgl32.Vec3{float32(f.Origin.X) * s, float32(f.Origin.Y) * s, float32(f.Origin.Z) * s}
	if f.Direction.Positive() {
		origin[sw.W] += s
	}
	du := float32(f.Width) * s
	dv := float32(f.Height) * s

	normal := f.Direction.Normal()
	color := f.Type.Color()

	var verts [VerticesPerFace]Vertex
	for i, c := range quadCorners[f.Direction] {
		p := origin
		p[sw.U] += c.cu * du
		p[sw.V] += c.cv * dv
		verts[i] = Vertex{
			Position: p,
			Normal:   normal,
			TexCoord: mgl32.Vec2{c.cu, c.cv},
			Color:    color,
		}
	}
	return verts, FaceIndices(base)
}

// Build emits a mesh for merged faces, in order.
func (e *Emitter) Build(faces []MergedFace) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(faces)*VerticesPerFace),
		Indices:  make([]uint32, 0, len(faces)*IndicesPerFace),
	}
	var base uint32
	for _, f := range faces {
		verts, idx := e.EmitMergedFace(f, base)
		m.Vertices = append(m.Vertices, verts[:]...)
		m.Indices = append(m.Indices, idx[:]...)
		base += VerticesPerFace
	}
	return m
}

// BuildFaces emits a mesh for unmerged faces, in order.
func (e *Emitter) BuildFaces(faces []Face) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(faces)*VerticesPerFace),
		Indices:  make([]uint32, 0, len(faces)*IndicesPerFace),
	}
	var base uint32
	for _, f := range faces {
		verts, idx := e.EmitFace(f, base)
		m.Vertices = append(m.Vertices, verts[:]...)
		m.Indices = append(m.Indices, idx[:]...)
		base += VerticesPerFace
	}
	return m
}
