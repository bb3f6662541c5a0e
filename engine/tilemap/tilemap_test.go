package tilemap

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memmaker/tilemapatlas/engine/util"
)

const delta = 1e-6

var atlas64 = TextureSize{W: 64, H: 64}

func exactConfig() Config {
	return Config{UVMode: UVExact, ContentScaleFactor: 1}
}

// twoByTwoRaster is the 2x2 map with tiles only in column x=1.
func twoByTwoRaster() *Raster {
	r := NewRaster(2, 2)
	r.Set(1, 0, Color3B{R: 5})
	r.Set(1, 1, Color3B{R: 3})
	return r
}

func randomRaster(rng *rand.Rand, width, height int) *Raster {
	r := NewRaster(width, height)
	for i := range r.Pixels {
		if rng.Intn(3) == 0 {
			continue
		}
		r.Pixels[i] = Color3B{R: uint8(1 + rng.Intn(15)), G: uint8(rng.Intn(256))}
	}
	return r
}

func TestTwoByTwoGrid(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())

	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 2, m.ItemsToRender())
	assert.Equal(t, 2, m.Atlas().Capacity())
	assert.Equal(t, 2, m.Atlas().TotalQuads())
	assert.True(t, m.Atlas().Dirty())
	assert.Equal(t, 4, m.ItemsPerRow())

	slot, ok := m.AtlasIndexAt(1, 0)
	require.True(t, ok)
	assert.Equal(t, 0, slot)
	slot, ok = m.AtlasIndexAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, 1, slot)
	_, ok = m.AtlasIndexAt(0, 0)
	assert.False(t, ok)
	_, ok = m.AtlasIndexAt(0, 1)
	assert.False(t, ok)

	white := Color4B{R: 255, G: 255, B: 255, A: 255}
	want := []Quad{
		{
			TL: Vertex{Position: mgl32.Vec3{16, 16, 0}, Color: white, TexCoord: mgl32.Vec2{0.25, 0.25}},
			BL: Vertex{Position: mgl32.Vec3{16, 0, 0}, Color: white, TexCoord: mgl32.Vec2{0.25, 0.5}},
			TR: Vertex{Position: mgl32.Vec3{32, 16, 0}, Color: white, TexCoord: mgl32.Vec2{0.5, 0.25}},
			BR: Vertex{Position: mgl32.Vec3{32, 0, 0}, Color: white, TexCoord: mgl32.Vec2{0.5, 0.5}},
		},
		{
			TL: Vertex{Position: mgl32.Vec3{16, 32, 0}, Color: white, TexCoord: mgl32.Vec2{0.75, 0}},
			BL: Vertex{Position: mgl32.Vec3{16, 16, 0}, Color: white, TexCoord: mgl32.Vec2{0.75, 0.25}},
			TR: Vertex{Position: mgl32.Vec3{32, 32, 0}, Color: white, TexCoord: mgl32.Vec2{1, 0}},
			BR: Vertex{Position: mgl32.Vec3{32, 16, 0}, Color: white, TexCoord: mgl32.Vec2{1, 0.25}},
		},
	}
	if diff := cmp.Diff(want, m.Atlas().Quads()); diff != "" {
		t.Errorf("Quads() mismatch (-want+got):\n%v", diff)
	}

	w, h := m.ContentSize()
	assert.Equal(t, float32(32), w)
	assert.Equal(t, float32(32), h)
}

func TestOccupancyMatchesQuadCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		r := randomRaster(rng, 1+rng.Intn(12), 1+rng.Intn(12))
		occupied := 0
		for _, c := range r.Pixels {
			if c.R != 0 {
				occupied++
			}
		}
		assert.Equal(t, occupied, CountOccupied(r))

		m := New(atlas64, r, 16, 16, exactConfig())
		assert.Equal(t, occupied, m.ItemsToRender())
		assert.Equal(t, occupied, m.Atlas().TotalQuads())
	}
}

func TestSlotsFollowScanOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := randomRaster(rng, 9, 7)
	m := New(atlas64, r, 16, 16, exactConfig())

	seen := map[int]bool{}
	next := 0
	for x := 0; x < r.Width; x++ {
		for y := 0; y < r.Height; y++ {
			slot, ok := m.AtlasIndexAt(x, y)
			assert.Equal(t, r.At(x, y).Occupied(), ok, "(%d,%d)", x, y)
			if !ok {
				continue
			}
			assert.Equal(t, next, slot)
			assert.False(t, seen[slot])
			seen[slot] = true
			next++
		}
	}
	assert.Equal(t, m.ItemsToRender(), len(seen))
	assert.Equal(t, m.ItemsToRender(), m.index.Len())
}

func TestPositionIndexPositions(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	if diff := cmp.Diff([][2]int{{1, 0}, {1, 1}}, m.index.Positions()); diff != "" {
		t.Errorf("Positions() mismatch (-want+got):\n%v", diff)
	}
}

func TestQuadGeometryIgnoresValue(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := randomRaster(rng, 6, 5)
	m := New(atlas64, r, 12, 10, exactConfig())
	for x := 0; x < r.Width; x++ {
		for y := 0; y < r.Height; y++ {
			slot, ok := m.AtlasIndexAt(x, y)
			if !ok {
				continue
			}
			lo, hi := m.Atlas().Quads()[slot].Bounds()
			assert.Equal(t, mgl32.Vec2{float32(x * 12), float32(y * 10)}, lo)
			assert.Equal(t, mgl32.Vec2{float32((x + 1) * 12), float32((y + 1) * 10)}, hi)
			q := m.Atlas().Quads()[slot]
			assert.Equal(t, float32(0), q.TL.Position.Z())
			assert.Equal(t, float32(0), q.BR.Position.Z())
		}
	}
}

func TestTexCoordsExact(t *testing.T) {
	for r := 1; r < 256; r++ {
		const itemsPerRow, itemW, itemH, texW, texH = 8, 16, 8, 128, 256
		left, right, top, bottom := TexCoords(Color3B{R: uint8(r)}, itemsPerRow, itemW, itemH, texW, texH, UVExact)
		row := float32(r % itemsPerRow)
		col := float32(r / itemsPerRow)
		assert.InDelta(t, row*itemW/texW, left, delta)
		assert.InDelta(t, row*itemW/texW+itemW/texW, right, delta)
		assert.InDelta(t, col*itemH/texH, top, delta)
		assert.InDelta(t, col*itemH/texH+itemH/texH, bottom, delta)
	}
}

func TestTexCoordsEdgeCorrect(t *testing.T) {
	left, right, top, bottom := TexCoords(Color3B{R: 5}, 4, 16, 16, 64, 64, UVEdgeCorrect)
	assert.InDelta(t, 33.0/128, left, delta)
	assert.InDelta(t, 63.0/128, right, delta)
	assert.InDelta(t, 33.0/128, top, delta)
	assert.InDelta(t, 63.0/128, bottom, delta)

	m := New(atlas64, twoByTwoRaster(), 16, 16, Config{UVMode: UVEdgeCorrect})
	q := m.Atlas().Quads()[0]
	assert.InDelta(t, 33.0/128, q.TL.TexCoord.X(), delta)
	assert.InDelta(t, 63.0/128, q.BR.TexCoord.Y(), delta)
}

func TestContentScaleFactor(t *testing.T) {
	m := New(TextureSize{W: 128, H: 128}, twoByTwoRaster(), 16, 16, Config{ContentScaleFactor: 2})
	assert.Equal(t, 4, m.ItemsPerRow())
	assert.Equal(t, 4, m.ItemsPerColumn())

	plain := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	if diff := cmp.Diff(plain.Atlas().Quads(), m.Atlas().Quads()); diff != "" {
		t.Errorf("scaled quads mismatch (-want+got):\n%v", diff)
	}
}

func TestSetTile(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	m.Atlas().SetDirty(false)

	value := Color3B{R: 2, G: 9, B: 1}
	assert.True(t, m.SetTile(1, 1, value))
	assert.Equal(t, value, m.TileAt(1, 1))
	assert.True(t, m.Atlas().Dirty())
	assert.Equal(t, 2, m.Atlas().TotalQuads())

	q := m.Atlas().Quads()[1]
	assert.Equal(t, mgl32.Vec2{0.5, 0}, q.TL.TexCoord)
	assert.Equal(t, mgl32.Vec3{16, 16, 0}, q.BL.Position)
}

func TestSetTileRejections(t *testing.T) {
	var logged bytes.Buffer
	util.SetLogOutput(&logged)
	defer util.SetLogOutput(nil)

	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	before := append([]Quad(nil), m.Atlas().Quads()...)
	pixels := append([]Color3B(nil), m.Raster().Pixels...)

	assert.False(t, m.SetTile(1, 0, Color3B{G: 4}))
	assert.Equal(t, Color3B{R: 5}, m.TileAt(1, 0))

	assert.False(t, m.SetTile(0, 0, Color3B{R: 4}))
	assert.Equal(t, Color3B{}, m.TileAt(0, 0))

	if diff := cmp.Diff(before, m.Atlas().Quads()); diff != "" {
		t.Errorf("quads changed (-want+got):\n%v", diff)
	}
	assert.Equal(t, pixels, m.Raster().Pixels)
	assert.Equal(t, 2, strings.Count(logged.String(), "[TileMap] SetTile"))
}

func TestWriteGrowsLogicalLength(t *testing.T) {
	r := NewRaster(5, 1)
	for x := 0; x < 5; x++ {
		r.Set(x, 0, Color3B{R: 1})
	}
	m := New(atlas64, r, 16, 16, exactConfig())
	m.Atlas().SetTotalQuads(0)

	m.updateAtlasValueAt(3, 0, Color3B{R: 2}, 3)
	assert.Equal(t, 4, m.Atlas().TotalQuads())

	m.updateAtlasValueAt(1, 0, Color3B{R: 2}, 1)
	assert.Equal(t, 4, m.Atlas().TotalQuads())

	m.updateAtlasValueAt(4, 0, Color3B{R: 2}, 4)
	assert.Equal(t, 5, m.Atlas().TotalQuads())
}

func TestPreconditionPanics(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())

	assert.Panics(t, func() { m.TileAt(2, 0) })
	assert.Panics(t, func() { m.TileAt(0, -1) })
	assert.Panics(t, func() { m.SetTile(0, 2, Color3B{R: 1}) })
	assert.Panics(t, func() { m.updateAtlasValueAt(1, 0, Color3B{R: 1}, 2) })
	assert.Panics(t, func() { m.updateAtlasValueAt(1, 0, Color3B{}, 0) })
	assert.Panics(t, func() { m.SetRaster(NewRaster(3, 3)) })

	assert.Panics(t, func() { New(atlas64, &Raster{}, 16, 16, exactConfig()) })
	assert.Panics(t, func() { New(atlas64, nil, 16, 16, exactConfig()) })
	assert.Panics(t, func() { New(atlas64, twoByTwoRaster(), 128, 16, exactConfig()) })
	assert.Panics(t, func() { New(atlas64, twoByTwoRaster(), 0, 16, exactConfig()) })
	assert.Panics(t, func() { CountOccupied(&Raster{Width: 1, Height: 1}) })
}

func TestCheckTileSize(t *testing.T) {
	assert.NoError(t, CheckTileSize(atlas64, 16, 16, exactConfig()))
	assert.NoError(t, CheckTileSize(atlas64, 64, 64, exactConfig()))
	assert.Error(t, CheckTileSize(atlas64, 1000, 16, exactConfig()))
	assert.Error(t, CheckTileSize(atlas64, 16, 65, exactConfig()))
	assert.Error(t, CheckTileSize(atlas64, 0, 16, exactConfig()))
	assert.Error(t, CheckTileSize(atlas64, 16, -1, exactConfig()))
	// at scale 2 the 64 px atlas is 32 points wide
	assert.Error(t, CheckTileSize(atlas64, 40, 16, Config{ContentScaleFactor: 2}))
	assert.NoError(t, CheckTileSize(atlas64, 32, 32, Config{ContentScaleFactor: 2}))
}

func TestReleaseMap(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	m.ReleaseMap()
	assert.Equal(t, StateUnloaded, m.State())
	assert.Nil(t, m.Raster())
	assert.NotPanics(t, m.ReleaseMap)

	assert.Panics(t, func() { m.TileAt(1, 0) })
	assert.Panics(t, func() { m.SetTile(1, 0, Color3B{R: 1}) })
	assert.Equal(t, 2, m.Atlas().TotalQuads())
}

func TestSetRaster(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	replacement := twoByTwoRaster()
	replacement.Set(0, 0, Color3B{R: 9})
	m.SetRaster(replacement)
	assert.True(t, replacement == m.Raster())
	assert.Equal(t, Color3B{R: 9}, m.TileAt(0, 0))
	// the index is not rebuilt
	assert.False(t, m.SetTile(0, 0, Color3B{R: 1}))
}

func TestColorAndOpacity(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	m.Atlas().SetDirty(false)

	m.SetColor(Color3B{R: 10, G: 20, B: 30})
	m.SetOpacity(128)
	assert.True(t, m.Atlas().Dirty())
	for _, q := range m.Atlas().Quads() {
		for _, v := range []Vertex{q.TL, q.BL, q.TR, q.BR} {
			assert.Equal(t, Color4B{R: 10, G: 20, B: 30, A: 128}, v.Color)
		}
	}

	m.SetTile(1, 0, Color3B{R: 7})
	assert.Equal(t, Color4B{R: 10, G: 20, B: 30, A: 128}, m.Atlas().Quads()[0].BR.Color)

	premultiplied := New(atlas64, twoByTwoRaster(), 16, 16, Config{OpacityModifiesRGB: true})
	premultiplied.SetOpacity(0)
	assert.Equal(t, Color4B{}, premultiplied.Atlas().Quads()[1].TL.Color)
}

func TestGridPosition(t *testing.T) {
	m := New(atlas64, twoByTwoRaster(), 16, 16, exactConfig())
	x, y, ok := m.GridPosition(17, 31.5)
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)

	_, _, ok = m.GridPosition(32, 0)
	assert.False(t, ok)
	_, _, ok = m.GridPosition(-1, 0)
	assert.False(t, ok)
}

func TestEmptyMap(t *testing.T) {
	m := New(atlas64, NewRaster(3, 3), 16, 16, exactConfig())
	assert.Equal(t, 0, m.ItemsToRender())
	assert.Equal(t, 0, m.Atlas().TotalQuads())
	assert.Empty(t, m.Atlas().VertexData())
	assert.False(t, m.SetTile(1, 1, Color3B{R: 1}))
}

func BenchmarkBuild(b *testing.B) {
	r := randomRaster(rand.New(rand.NewSource(1)), 256, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New(atlas64, r, 16, 16, exactConfig())
	}
}

func BenchmarkSetTile(b *testing.B) {
	r := NewRaster(256, 256)
	for i := range r.Pixels {
		r.Pixels[i] = Color3B{R: 1}
	}
	m := New(atlas64, r, 16, 16, exactConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.SetTile(i%256, (i/256)%256, Color3B{R: uint8(1 + i%15)})
	}
}
