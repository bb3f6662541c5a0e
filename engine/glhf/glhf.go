// Package glhf holds the small set of OpenGL wrappers the tile renderer needs: shaders with a
// declared vertex and uniform format, textures and indexed vertex slices.
//
// All functions must be called on the thread that owns the GL context. Finalizers hand GL
// object deletion back to that thread through mainthread.
package glhf

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/memmaker/tilemapatlas/engine/util"
)

const SizeOfFloat32 = 4

// Init loads the OpenGL function pointers. Call it once after making a context current.
func Init() {
	if err := gl.Init(); err != nil {
		panic(err)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// Clear fills the current framebuffer with one color.
func Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// CheckError drains the GL error queue, logging every pending error under op.
// It reports whether any error was pending.
func CheckError(op string) bool {
	found := false
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		util.LogGlError(fmt.Sprintf("[%s] GL error 0x%04x", op, code))
		found = true
	}
	return found
}

type binder struct {
	restoreLoc uint32
	bindFunc   func(uint32)

	obj  uint32
	prev []uint32
}

func (b *binder) bind() *binder {
	var prev int32
	gl.GetIntegerv(b.restoreLoc, &prev)
	b.prev = append(b.prev, uint32(prev))
	if b.prev[len(b.prev)-1] != b.obj {
		b.bindFunc(b.obj)
	}
	return b
}

func (b *binder) restore() *binder {
	if b.prev[len(b.prev)-1] != b.obj {
		b.bindFunc(b.prev[len(b.prev)-1])
	}
	b.prev = b.prev[:len(b.prev)-1]
	return b
}
