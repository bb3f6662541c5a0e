package tilemap

import "fmt"

// Color3B is one raster cell. R carries the tile kind, 0 means empty.
type Color3B struct {
	R, G, B uint8
}

func (c Color3B) Occupied() bool {
	return c.R != 0
}

func (c Color3B) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Color4B is the per vertex color written into the quad buffer.
type Color4B struct {
	R, G, B, A uint8
}

var White = Color3B{R: 255, G: 255, B: 255}

// Floats returns the color normalized to [0,1], as the shader expects it.
func (c Color4B) Floats() (float32, float32, float32, float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

func displayColor(c Color3B, opacity uint8, modifyRGB bool) Color4B {
	if !modifyRGB {
		return Color4B{R: c.R, G: c.G, B: c.B, A: opacity}
	}
	return Color4B{
		R: uint8(uint16(c.R) * uint16(opacity) / 255),
		G: uint8(uint16(c.G) * uint16(opacity) / 255),
		B: uint8(uint16(c.B) * uint16(opacity) / 255),
		A: opacity,
	}
}
