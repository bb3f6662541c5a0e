package glhf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestUniformMatches(t *testing.T) {
	assert.True(t, uniformMatches(Mat4, mgl32.Ident4()))
	assert.True(t, uniformMatches(Vec2, mgl32.Vec2{}))
	assert.True(t, uniformMatches(Int, int32(3)))
	assert.True(t, uniformMatches(Float, float32(0.5)))

	assert.False(t, uniformMatches(Mat4, float32(1)))
	assert.False(t, uniformMatches(Int, 3))
	assert.False(t, uniformMatches(Float, 0.5))
	assert.False(t, uniformMatches(Vec3, mgl32.Vec4{}))
	assert.False(t, uniformMatches(Vec4, nil))
}

func TestSetUniformAttrRejectsWrongType(t *testing.T) {
	s := &Shader{
		uniformFmt: AttrFormat{{Name: "model", Type: Mat4}, {Name: "missing", Type: Float}},
		uniformLoc: []int32{0, -1},
	}
	assert.NotPanics(t, func() {
		assert.False(t, s.SetUniformAttr(0, float32(1)))
		assert.False(t, s.SetUniformAttr(0, mgl32.Vec4{}))
		assert.False(t, s.SetUniformAttr(1, float32(1)))
	})
}

func TestAttrFormatSize(t *testing.T) {
	format := AttrFormat{
		{Name: "position", Type: Vec3},
		{Name: "color", Type: Vec4},
		{Name: "texCoord", Type: Vec2},
	}
	assert.Equal(t, 9*SizeOfFloat32, format.Size())
}
