package graphics

import (
	"voxelmesh/internal/meshing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const floatSize = 4

// MeshBuffer holds the GPU copy of a meshing.Mesh. It must be created, drawn
// and deleted on the thread that owns the GL context.
type MeshBuffer struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewMeshBuffer uploads m. An empty mesh yields a buffer that draws nothing.
func NewMeshBuffer(m *meshing.Mesh) *MeshBuffer {
	b := &MeshBuffer{}
	b.Upload(m)
	return b
}

// Upload replaces the buffer contents with m, allocating GL objects on first
// use.
func (b *MeshBuffer) Upload(m *meshing.Mesh) {
	if m.Empty() {
		b.indexCount = 0
		return
	}
	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)
		gl.GenBuffers(1, &b.ebo)
		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)

		stride := int32(meshing.VertexStride * floatSize)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, meshing.PositionOffset*floatSize)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, meshing.NormalOffset*floatSize)
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, meshing.TexCoordOffset*floatSize)
		gl.EnableVertexAttribArray(3)
		gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, stride, meshing.ColorOffset*floatSize)
	} else {
		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	}

	verts := m.Interleaved()
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*floatSize, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	b.indexCount = m.IndexCount()
	gl.BindVertexArray(0)
}

// Draw issues the indexed triangle draw call.
func (b *MeshBuffer) Draw() {
	if b.indexCount == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, 0)
}

// IndexCount is the number of indices the last upload stored.
func (b *MeshBuffer) IndexCount() int32 { return b.indexCount }

// Delete frees the GL objects.
func (b *MeshBuffer) Delete() {
	if b.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteBuffers(1, &b.ebo)
	b.vao, b.vbo, b.ebo, b.indexCount = 0, 0, 0, 0
}
