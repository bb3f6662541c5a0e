package glhf

import (
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// IndexedBuffer is a vertex array with one interleaved float buffer and a static element
// buffer. Vertices are laid out as in the vertex format of the shader it was made for.
//
// Begin it before uploading or drawing, End it afterwards.
type IndexedBuffer struct {
	vao, vbo binder
	ibo      uint32

	format   AttrFormat
	stride   int
	vertices int
	indices  int
}

// NewIndexedBuffer allocates room for vertexCount vertices and uploads indices once. The
// buffer can only be drawn with shader, or a shader of the same vertex format.
func NewIndexedBuffer(shader *Shader, vertexCount int, indices []uint32) *IndexedBuffer {
	if vertexCount < 0 {
		panic(errors.Errorf("indexed buffer: invalid vertex count %d", vertexCount))
	}
	b := &IndexedBuffer{
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		format:   shader.VertexFormat(),
		stride:   shader.VertexFormat().Size(),
		vertices: vertexCount,
		indices:  len(indices),
	}

	gl.GenVertexArrays(1, &b.vao.obj)
	b.vao.bind()

	gl.GenBuffers(1, &b.vbo.obj)
	b.vbo.bind()
	// a zero sized store is valid, drawing it is skipped
	gl.BufferData(gl.ARRAY_BUFFER, vertexCount*b.stride, nil, gl.DYNAMIC_DRAW)
	b.bindAttributes(shader)

	if len(indices) > 0 {
		// the element buffer binding is vao state and must stay bound while the vao is
		gl.GenBuffers(1, &b.ibo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ibo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	CheckError("IndexedBuffer")

	b.vbo.restore()
	b.vao.restore()

	runtime.SetFinalizer(b, (*IndexedBuffer).delete)
	return b
}

func (b *IndexedBuffer) bindAttributes(shader *Shader) {
	offset := 0
	for _, attr := range b.format {
		var components int32
		switch attr.Type {
		case Float:
			components = 1
		case Vec2:
			components = 2
		case Vec3:
			components = 3
		case Vec4:
			components = 4
		default:
			panic(errors.Errorf("indexed buffer: attribute %s must be a float type", attr.Name))
		}
		loc := gl.GetAttribLocation(shader.ID(), gl.Str(attr.Name+"\x00"))
		if loc >= 0 {
			gl.VertexAttribPointerWithOffset(uint32(loc), components, gl.FLOAT, false, int32(b.stride), uintptr(offset))
			gl.EnableVertexAttribArray(uint32(loc))
		}
		offset += attr.Type.Size()
	}
}

func (b *IndexedBuffer) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteVertexArrays(1, &b.vao.obj)
		gl.DeleteBuffers(1, &b.vbo.obj)
		if b.ibo != 0 {
			gl.DeleteBuffers(1, &b.ibo)
		}
	})
}

func (b *IndexedBuffer) VertexFormat() AttrFormat {
	return b.format
}

// Stride is the number of floats per vertex.
func (b *IndexedBuffer) Stride() int {
	return b.stride / SizeOfFloat32
}

// VertexCount is the number of vertices the buffer was allocated for.
func (b *IndexedBuffer) VertexCount() int {
	return b.vertices
}

func (b *IndexedBuffer) IndexCount() int {
	return b.indices
}

// Upload overwrites the buffer from its first vertex. data must be whole vertices and must
// not exceed VertexCount.
func (b *IndexedBuffer) Upload(data []float32) {
	if len(data)%b.Stride() != 0 {
		panic(errors.Errorf("indexed buffer: %d floats is not a multiple of the stride %d", len(data), b.Stride()))
	}
	if len(data)/b.Stride() > b.vertices {
		panic(errors.Errorf("indexed buffer: %d vertices do not fit into %d", len(data)/b.Stride(), b.vertices))
	}
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*SizeOfFloat32, gl.Ptr(data))
}

// DrawElements draws the first count indices as triangles.
func (b *IndexedBuffer) DrawElements(count int) {
	if count > b.indices {
		panic(errors.Errorf("indexed buffer: %d indices requested, %d available", count, b.indices))
	}
	if count <= 0 {
		return
	}
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
}

func (b *IndexedBuffer) Begin() {
	b.vao.bind()
	b.vbo.bind()
}

func (b *IndexedBuffer) End() {
	b.vbo.restore()
	b.vao.restore()
}
