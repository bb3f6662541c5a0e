// Package encode turns an ordinary picture into a tile map raster: every distinct (quantized)
// color becomes one tile kind, transparent pixels stay empty.
package encode

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"

	"github.com/memmaker/tilemapatlas/engine/tilemap"
	"github.com/memmaker/tilemapatlas/engine/tilemap/tga"
)

const MaxKinds = 255

// Result holds the raster and the palette; kind k was quantized from Palette[k-1].
type Result struct {
	Raster  *tilemap.Raster
	Palette color.Palette
}

// FromImage reduces m to at most kinds colors. Pixels with alpha below 128 become empty cells.
func FromImage(m image.Image, kinds int) (*Result, error) {
	if kinds < 1 || kinds > MaxKinds {
		return nil, errors.Errorf("encode: kinds must be between 1 and %d, got %d", MaxKinds, kinds)
	}
	bounds := m.Bounds()
	if bounds.Empty() {
		return nil, errors.New("encode: empty image")
	}

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, kinds), m)
	if len(palette) == 0 {
		return nil, errors.New("encode: quantizer returned no colors")
	}

	kindPicture := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			kind := palette.Index(c) + 1
			kindPicture.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.NRGBA{R: uint8(kind), A: 255})
		}
	}
	return &Result{Raster: tilemap.RasterFromImage(kindPicture), Palette: palette}, nil
}

// Write stores the raster as TGA when filename ends in .tga, as PNG otherwise.
func Write(w io.Writer, filename string, r *tilemap.Raster) error {
	img := r.ToImage()
	if strings.EqualFold(filepath.Ext(filename), ".tga") {
		return tga.Encode(w, img)
	}
	return png.Encode(w, img)
}

// WriteFile is Write into a newly created file.
func WriteFile(filename string, r *tilemap.Raster) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "encode: could not create %s", filename)
	}
	if err := Write(file, filename, r); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode: could not write %s", filename)
	}
	return file.Close()
}
