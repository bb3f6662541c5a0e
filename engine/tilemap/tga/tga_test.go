package tga

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawHeader(imageType, depth, descriptor uint8, width, height int) []byte {
	h := make([]byte, headerSize)
	h[2] = imageType
	h[12] = byte(width)
	h[13] = byte(width >> 8)
	h[14] = byte(height)
	h[15] = byte(height >> 8)
	h[16] = depth
	h[17] = descriptor
	return h
}

func TestDecodeUncompressedBottomLeft(t *testing.T) {
	// 2x2, stored bottom row first, BGR
	data := rawHeader(typeTrueColor, 24, 0, 2, 2)
	data = append(data,
		1, 0, 10, 2, 0, 20, // bottom row: red 10, red 20
		3, 0, 30, 4, 0, 40, // top row: red 30, red 40
	)
	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	nrgba := img.(*image.NRGBA)

	assert.Equal(t, color.NRGBA{R: 30, B: 3, A: 255}, nrgba.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 40, B: 4, A: 255}, nrgba.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 10, B: 1, A: 255}, nrgba.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 20, B: 2, A: 255}, nrgba.NRGBAAt(1, 1))
}

func TestDecodeTopDownWithID(t *testing.T) {
	data := rawHeader(typeTrueColor, 24, descriptorTopDown, 1, 2)
	data[0] = 3
	data = append(data, 'a', 'b', 'c')
	data = append(data, 0, 0, 7, 0, 0, 9)
	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	nrgba := img.(*image.NRGBA)
	assert.Equal(t, uint8(7), nrgba.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(9), nrgba.NRGBAAt(0, 1).R)
}

func TestDecodeRLE(t *testing.T) {
	data := rawHeader(typeTrueColorRLE, 24, descriptorTopDown, 4, 1)
	data = append(data,
		0x82, 0, 0, 5, // run of 3
		0x00, 0, 0, 6, // 1 raw pixel
	)
	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	nrgba := img.(*image.NRGBA)
	for x := 0; x < 3; x++ {
		assert.Equal(t, uint8(5), nrgba.NRGBAAt(x, 0).R)
	}
	assert.Equal(t, uint8(6), nrgba.NRGBAAt(3, 0).R)
}

func TestDecodeRejectsRunPastEnd(t *testing.T) {
	data := rawHeader(typeTrueColorRLE, 24, 0, 2, 1)
	data = append(data, 0x84, 0, 0, 5)
	_, err := Decode(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader(rawHeader(1, 8, 0, 1, 1)))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Decode(bytes.NewReader(rawHeader(typeTrueColor, 16, 0, 1, 1)))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Decode(bytes.NewReader([]byte{0, 0}))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{R: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "tga", format)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 2, cfg.Height)

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, img.(*image.NRGBA).Pix)
}
