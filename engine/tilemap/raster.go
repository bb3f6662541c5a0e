package tilemap

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	_ "github.com/memmaker/tilemapatlas/engine/tilemap/tga"
)

// Raster is a decoded map image: Width*Height cells in row-major order, cell (x, y) at
// Pixels[x+y*Width]. Row y=0 is the bottom row of the source picture.
type Raster struct {
	Width  int
	Height int
	Pixels []Color3B
	loaded bool
}

// NewRaster returns an all-empty raster that counts as loaded.
func NewRaster(width, height int) *Raster {
	if width < 0 || height < 0 {
		panic(errors.Errorf("raster: invalid size %dx%d", width, height))
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pixels: make([]Color3B, width*height),
		loaded: true,
	}
}

// RasterFromImage copies the RGB channels of img. Alpha is ignored, only red decides whether
// a cell holds a tile.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := NewRaster(bounds.Dx(), bounds.Dy())
	for py := 0; py < r.Height; py++ {
		y := r.Height - 1 - py
		for x := 0; x < r.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+py)).(color.NRGBA)
			r.Pixels[x+y*r.Width] = Color3B{R: c.R, G: c.G, B: c.B}
		}
	}
	return r
}

// DecodeRaster decodes any registered image format (png, gif, jpeg, bmp, tiff, tga).
func DecodeRaster(reader io.Reader) (*Raster, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, errors.Wrap(err, "raster: decode failed")
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("raster: %s image has no pixels", format)
	}
	return RasterFromImage(img), nil
}

func LoadRaster(filename string) (*Raster, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "raster: could not open %s", filename)
	}
	defer file.Close()
	r, err := DecodeRaster(file)
	if err != nil {
		return nil, errors.Wrapf(err, "raster: could not load %s", filename)
	}
	return r, nil
}

// Loaded reports whether the raster holds decoded data.
func (r *Raster) Loaded() bool {
	return r != nil && r.loaded && len(r.Pixels) == r.Width*r.Height
}

func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

func (r *Raster) At(x, y int) Color3B {
	r.mustContain(x, y)
	return r.Pixels[x+y*r.Width]
}

func (r *Raster) Set(x, y int, c Color3B) {
	r.mustContain(x, y)
	r.Pixels[x+y*r.Width] = c
}

func (r *Raster) mustContain(x, y int) {
	if !r.Loaded() {
		panic(errors.New("raster: not loaded"))
	}
	if !r.InBounds(x, y) {
		panic(errors.Errorf("raster: position (%d,%d) outside %dx%d", x, y, r.Width, r.Height))
	}
}

// ToImage renders the raster back into a picture, top row first. Empty cells are transparent.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		py := r.Height - 1 - y
		for x := 0; x < r.Width; x++ {
			c := r.Pixels[x+y*r.Width]
			if !c.Occupied() {
				continue
			}
			img.SetNRGBA(x, py, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// Kinds counts the cells per distinct tile kind, empty cells excluded.
func (r *Raster) Kinds() map[uint8]int {
	kinds := map[uint8]int{}
	for _, c := range r.Pixels {
		if c.Occupied() {
			kinds[c.R]++
		}
	}
	return kinds
}
