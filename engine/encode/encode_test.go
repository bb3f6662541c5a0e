package encode

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memmaker/tilemapatlas/engine/tilemap"
)

func twoColorPicture() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{R: 250, G: 10, B: 10, A: 255}
			if x >= 2 {
				c = color.NRGBA{R: 10, G: 10, B: 250, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFromImageKinds(t *testing.T) {
	result, err := FromImage(twoColorPicture(), 2)
	require.NoError(t, err)
	r := result.Raster

	assert.True(t, len(result.Palette) <= 2)
	assert.Equal(t, 8, tilemap.CountOccupied(r))

	left := r.At(0, 0).R
	right := r.At(3, 1).R
	assert.NotZero(t, left)
	assert.NotZero(t, right)
	assert.NotEqual(t, left, right)
	assert.Equal(t, left, r.At(1, 1).R)
	assert.Equal(t, right, r.At(2, 0).R)
}

func TestFromImageTransparentIsEmpty(t *testing.T) {
	img := twoColorPicture()
	img.SetNRGBA(0, 0, color.NRGBA{})
	img.SetNRGBA(3, 1, color.NRGBA{R: 10, G: 10, B: 250, A: 20})

	result, err := FromImage(img, 8)
	require.NoError(t, err)
	r := result.Raster
	assert.Equal(t, 6, tilemap.CountOccupied(r))
	// picture row 0 is the top, so it lands in raster row 1
	assert.False(t, r.At(0, 1).Occupied())
	assert.False(t, r.At(3, 0).Occupied())
	assert.True(t, r.At(0, 0).Occupied())
}

func TestFromImageValidation(t *testing.T) {
	_, err := FromImage(twoColorPicture(), 0)
	assert.Error(t, err)
	_, err = FromImage(twoColorPicture(), 256)
	assert.Error(t, err)
	_, err = FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	result, err := FromImage(twoColorPicture(), 2)
	require.NoError(t, err)

	for _, name := range []string{"map.png", "map.TGA"} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, name, result.Raster))
		back, err := tilemap.DecodeRaster(&buf)
		require.NoError(t, err, name)
		assert.Equal(t, result.Raster.Pixels, back.Pixels, name)
	}
}

func TestWriteFile(t *testing.T) {
	result, err := FromImage(twoColorPicture(), 2)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "level.tga")
	require.NoError(t, WriteFile(filename, result.Raster))
	back, err := tilemap.LoadRaster(filename)
	require.NoError(t, err)
	assert.Equal(t, 8, tilemap.CountOccupied(back))

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "x.png"), result.Raster))
}
