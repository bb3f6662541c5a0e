package tilemap

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// AtlasCell returns the atlas cell a tile kind is drawn from. Note the naming: row is the
// horizontal cell offset, col the vertical one.
func AtlasCell(value Color3B, itemsPerRow int) (row, col int) {
	if itemsPerRow <= 0 {
		panic(errors.Errorf("tilemap: invalid items per row %d", itemsPerRow))
	}
	return int(value.R) % itemsPerRow, int(value.R) / itemsPerRow
}

// TexCoords computes the uv box of a tile. Item and texture sizes are in pixels.
func TexCoords(value Color3B, itemsPerRow int, itemWidth, itemHeight, textureWide, textureHigh float32, mode UVMode) (left, right, top, bottom float32) {
	r, c := AtlasCell(value, itemsPerRow)
	row := float32(r)
	col := float32(c)

	switch mode {
	case UVEdgeCorrect:
		left = (2*row*itemWidth + 1) / (2 * textureWide)
		right = left + (itemWidth*2-2)/(2*textureWide)
		top = (2*col*itemHeight + 1) / (2 * textureHigh)
		bottom = top + (itemHeight*2-2)/(2*textureHigh)
	default:
		left = (row * itemWidth) / textureWide
		right = left + itemWidth/textureWide
		top = (col * itemHeight) / textureHigh
		bottom = top + itemHeight/textureHigh
	}
	return left, right, top, bottom
}

// updateAtlasValueAt writes the quad for the tile at (x, y) into slot index.
func (t *TileMapAtlas) updateAtlasValueAt(x, y int, value Color3B, index int) {
	if index < 0 || index >= t.atlas.Capacity() {
		panic(errors.Errorf("tilemap: invalid atlas index %d, capacity is %d", index, t.atlas.Capacity()))
	}
	if !value.Occupied() {
		panic(errors.Errorf("tilemap: tile at (%d,%d) has red component 0", x, y))
	}
	quad := t.atlas.Quad(index)

	texture := t.atlas.Texture()
	textureWide := float32(texture.Width())
	textureHigh := float32(texture.Height())
	scale := t.config.scale()
	itemWidthInPixels := float32(t.itemWidth) * scale
	itemHeightInPixels := float32(t.itemHeight) * scale

	left, right, top, bottom := TexCoords(value, t.itemsPerRow, itemWidthInPixels, itemHeightInPixels, textureWide, textureHigh, t.config.UVMode)

	quad.TL.TexCoord = mgl32.Vec2{left, top}
	quad.TR.TexCoord = mgl32.Vec2{right, top}
	quad.BL.TexCoord = mgl32.Vec2{left, bottom}
	quad.BR.TexCoord = mgl32.Vec2{right, bottom}

	x0 := float32(x * t.itemWidth)
	y0 := float32(y * t.itemHeight)
	x1 := x0 + float32(t.itemWidth)
	y1 := y0 + float32(t.itemHeight)

	quad.BL.Position = mgl32.Vec3{x0, y0, 0}
	quad.BR.Position = mgl32.Vec3{x1, y0, 0}
	quad.TL.Position = mgl32.Vec3{x0, y1, 0}
	quad.TR.Position = mgl32.Vec3{x1, y1, 0}

	color := t.quadColor()
	quad.TL.Color = color
	quad.TR.Color = color
	quad.BL.Color = color
	quad.BR.Color = color

	t.atlas.SetDirty(true)
	totalQuads := t.atlas.TotalQuads()
	if index+1 > totalQuads {
		t.atlas.IncreaseTotalQuadsWith(index + 1 - totalQuads)
	}
}
