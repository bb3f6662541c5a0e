// Package tilerender draws a tilemap.QuadAtlas with OpenGL.
package tilerender

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/memmaker/tilemapatlas/engine/glhf"
	"github.com/memmaker/tilemapatlas/engine/tilemap"
	"github.com/memmaker/tilemapatlas/engine/util"
)

var (
	//go:embed shader/tile.vert
	tileVertexShaderSource string

	//go:embed shader/tile.frag
	tileFragmentShaderSource string
)

const (
	uniformProjection = iota
	uniformModel
)

// LoadTileShader builds the shader matching the vertex layout of tilemap.QuadAtlas.VertexData.
func LoadTileShader(projection mgl32.Mat4) (*glhf.Shader, error) {
	var (
		vertexFormat = glhf.AttrFormat{
			{Name: "position", Type: glhf.Vec3},
			{Name: "color", Type: glhf.Vec4},
			{Name: "texCoord", Type: glhf.Vec2},
		}
		uniformFormat = glhf.AttrFormat{
			glhf.Attr{Name: "projection", Type: glhf.Mat4},
			glhf.Attr{Name: "model", Type: glhf.Mat4},
		}
	)
	shader, err := glhf.NewShader(vertexFormat, uniformFormat, tileVertexShaderSource, tileFragmentShaderSource)
	if err != nil {
		return nil, errors.Wrap(err, "tile shader")
	}
	shader.Begin()
	shader.SetUniformAttr(uniformProjection, projection)
	shader.SetUniformAttr(uniformModel, mgl32.Ident4())
	shader.End()
	return shader, nil
}

// Renderer keeps a GPU copy of one quad atlas and uploads it whenever the atlas is dirty.
type Renderer struct {
	shader   *glhf.Shader
	texture  *glhf.Texture
	vertices *glhf.IndexedBuffer
	capacity int
	pos      mgl32.Vec3
	scale    float32
	uploads  int
}

func NewRenderer(shader *glhf.Shader, texture *glhf.Texture) *Renderer {
	return &Renderer{
		shader:   shader,
		texture:  texture,
		capacity: -1,
		scale:    1,
	}
}

func (r *Renderer) SetPosition(pos mgl32.Vec3) {
	r.pos = pos
}

func (r *Renderer) SetScale(scale float32) {
	r.scale = scale
}

func (r *Renderer) GetTransformMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(r.pos.X(), r.pos.Y(), r.pos.Z()).Mul4(mgl32.Scale3D(r.scale, r.scale, 1))
}

// Uploads counts how often the vertex buffer was refreshed.
func (r *Renderer) Uploads() int {
	return r.uploads
}

func (r *Renderer) ensureCapacity(atlas *tilemap.QuadAtlas) {
	if atlas.Capacity() == r.capacity {
		return
	}
	r.capacity = atlas.Capacity()
	r.vertices = glhf.NewIndexedBuffer(r.shader, r.capacity*4, tilemap.QuadIndices(r.capacity))
	atlas.SetDirty(true)
	glhf.CheckError("TileRenderer")
	util.LogGlDebug(fmt.Sprintf("[TileRenderer] vertex buffer sized for %d quads", r.capacity))
}

func (r *Renderer) upload(atlas *tilemap.QuadAtlas) {
	if !atlas.Dirty() {
		return
	}
	r.vertices.Begin()
	r.vertices.Upload(atlas.VertexData())
	r.vertices.End()
	atlas.SetDirty(false)
	r.uploads++
}

// Draw uploads pending changes and draws the first TotalQuads quads of atlas.
func (r *Renderer) Draw(atlas *tilemap.QuadAtlas) {
	r.ensureCapacity(atlas)
	r.upload(atlas)

	r.shader.Begin()
	r.shader.SetUniformAttr(uniformModel, r.GetTransformMatrix())

	r.texture.Begin()

	r.vertices.Begin()
	r.vertices.DrawElements(atlas.TotalQuads() * 6)
	r.vertices.End()

	r.texture.End()
	r.shader.End()
}
