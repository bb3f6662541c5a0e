package glhf

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"runtime"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"

	"github.com/memmaker/tilemapatlas/engine/util"
)

// Texture is an RGBA atlas texture on the GPU. Row 0 of the uploaded pixels is v = 0.
type Texture struct {
	tex           binder
	width, height int
	smooth        bool
}

// NewTexture uploads width*height RGBA pixels, one byte per channel. Sampling clamps to the
// edge so cells on the atlas border never pick up the opposite side.
func NewTexture(width, height int, smooth bool, pixels []uint8) *Texture {
	if len(pixels) != width*height*4 {
		panic(errors.Errorf("texture: %d bytes for %dx%d pixels", len(pixels), width, height))
	}
	t := &Texture{
		tex: binder{
			restoreLoc: gl.TEXTURE_BINDING_2D,
			bindFunc: func(obj uint32) {
				gl.BindTexture(gl.TEXTURE_2D, obj)
			},
		},
		width:  width,
		height: height,
	}
	gl.GenTextures(1, &t.tex.obj)

	t.Begin()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	t.setFilter(smooth)
	t.End()

	runtime.SetFinalizer(t, (*Texture).delete)
	util.LogTextureDebug(fmt.Sprintf("[Texture] uploaded %dx%d, smooth: %v", width, height, smooth))
	return t
}

// NewTextureFromImage converts img to non premultiplied RGBA and uploads it, top row first.
func NewTextureFromImage(img image.Image, smooth bool) *Texture {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) || nrgba.Stride != bounds.Dx()*4 {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return NewTexture(bounds.Dx(), bounds.Dy(), smooth, nrgba.Pix)
}

func NewTextureFromReader(r io.Reader, smooth bool) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "texture: decode failed")
	}
	return NewTextureFromImage(img, smooth), nil
}

// MustLoadTexture panics if the file cannot be read or decoded.
func MustLoadTexture(filePath string, smooth bool) *Texture {
	file, err := os.Open(filePath)
	if err != nil {
		util.LogTextureError(err.Error())
		panic(err)
	}
	defer file.Close()
	texture, err := NewTextureFromReader(file, smooth)
	if err != nil {
		util.LogTextureError(fmt.Sprintf("[Texture] %s: %v", filePath, err))
		panic(errors.Wrapf(err, "texture: %s", filePath))
	}
	return texture
}

func (t *Texture) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &t.tex.obj)
	})
}

func (t *Texture) setFilter(smooth bool) {
	t.smooth = smooth
	filter := int32(gl.NEAREST)
	if smooth {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
}

func (t *Texture) ID() uint32 {
	return t.tex.obj
}

// Width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// SetSmooth switches between linear and nearest sampling. Pixel art atlases want nearest.
func (t *Texture) SetSmooth(smooth bool) {
	t.Begin()
	t.setFilter(smooth)
	t.End()
}

func (t *Texture) Smooth() bool {
	return t.smooth
}

func (t *Texture) Begin() {
	t.tex.bind()
}

func (t *Texture) End() {
	t.tex.restore()
}
