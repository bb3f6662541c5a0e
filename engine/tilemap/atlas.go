package tilemap

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type Vertex struct {
	Position mgl32.Vec3
	Color    Color4B
	TexCoord mgl32.Vec2
}

// Quad is one tile: four corners in top-left, bottom-left, top-right, bottom-right order.
type Quad struct {
	TL, BL, TR, BR Vertex
}

// Bounds returns the min and max corner of the quad's vertex positions.
func (q Quad) Bounds() (mgl32.Vec2, mgl32.Vec2) {
	return mgl32.Vec2{q.BL.Position.X(), q.BL.Position.Y()}, mgl32.Vec2{q.TR.Position.X(), q.TR.Position.Y()}
}

// TextureInfo is the part of an atlas texture the quad math needs: its size in pixels.
// *glhf.Texture satisfies it.
type TextureInfo interface {
	Width() int
	Height() int
}

// TextureSize is a TextureInfo for textures that are not on the GPU.
type TextureSize struct {
	W, H int
}

func (s TextureSize) Width() int  { return s.W }
func (s TextureSize) Height() int { return s.H }

// FloatsPerVertex is the interleaved layout of VertexData: position(3) color(4) texCoord(2).
const FloatsPerVertex = 3 + 4 + 2

// QuadAtlas is a fixed capacity buffer of quads that share one texture. Only the first
// TotalQuads quads are drawn.
type QuadAtlas struct {
	texture    TextureInfo
	quads      []Quad
	totalQuads int
	dirty      bool
}

func NewQuadAtlas(texture TextureInfo, capacity int) *QuadAtlas {
	if capacity < 0 {
		panic(errors.Errorf("quad atlas: invalid capacity %d", capacity))
	}
	return &QuadAtlas{
		texture: texture,
		quads:   make([]Quad, capacity),
	}
}

func (a *QuadAtlas) Texture() TextureInfo {
	return a.texture
}

func (a *QuadAtlas) SetTexture(texture TextureInfo) {
	a.texture = texture
	a.dirty = true
}

func (a *QuadAtlas) Capacity() int {
	return len(a.quads)
}

func (a *QuadAtlas) TotalQuads() int {
	return a.totalQuads
}

// Quads returns the drawn part of the buffer. Writes go straight into the atlas.
func (a *QuadAtlas) Quads() []Quad {
	return a.quads[:a.totalQuads]
}

// Quad gives mutable access to any slot below Capacity.
func (a *QuadAtlas) Quad(index int) *Quad {
	if index < 0 || index >= len(a.quads) {
		panic(errors.Errorf("quad atlas: index %d outside capacity %d", index, len(a.quads)))
	}
	return &a.quads[index]
}

func (a *QuadAtlas) SetDirty(dirty bool) {
	a.dirty = dirty
}

func (a *QuadAtlas) Dirty() bool {
	return a.dirty
}

func (a *QuadAtlas) IncreaseTotalQuadsWith(amount int) {
	a.SetTotalQuads(a.totalQuads + amount)
}

func (a *QuadAtlas) SetTotalQuads(total int) {
	if total < 0 || total > len(a.quads) {
		panic(errors.Errorf("quad atlas: total %d outside capacity %d", total, len(a.quads)))
	}
	a.totalQuads = total
}

// Resize changes the capacity. Quads beyond the new capacity are dropped.
func (a *QuadAtlas) Resize(capacity int) {
	if capacity < 0 {
		panic(errors.Errorf("quad atlas: invalid capacity %d", capacity))
	}
	if capacity == len(a.quads) {
		return
	}
	quads := make([]Quad, capacity)
	copy(quads, a.quads)
	a.quads = quads
	if a.totalQuads > capacity {
		a.totalQuads = capacity
	}
	a.dirty = true
}

// VertexData flattens the drawn quads into interleaved floats, four vertices per quad.
func (a *QuadAtlas) VertexData() []float32 {
	data := make([]float32, 0, a.totalQuads*4*FloatsPerVertex)
	for _, q := range a.Quads() {
		for _, v := range [4]Vertex{q.TL, q.BL, q.TR, q.BR} {
			r, g, b, alpha := v.Color.Floats()
			data = append(data,
				v.Position.X(), v.Position.Y(), v.Position.Z(),
				r, g, b, alpha,
				v.TexCoord.X(), v.TexCoord.Y(),
			)
		}
	}
	return data
}

// QuadIndices returns two triangles per quad for capacity quads: (tl, bl, tr) and (br, tr, bl).
func QuadIndices(capacity int) []uint32 {
	indices := make([]uint32, capacity*6)
	for i := 0; i < capacity; i++ {
		base := uint32(i * 4)
		indices[i*6+0] = base + 0
		indices[i*6+1] = base + 1
		indices[i*6+2] = base + 2
		indices[i*6+3] = base + 3
		indices[i*6+4] = base + 2
		indices[i*6+5] = base + 1
	}
	return indices
}
