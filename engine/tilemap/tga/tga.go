// Package tga implements a decoder and a minimal encoder for Truevision TGA images.
//
// Supported are uncompressed and RLE truecolor (24 and 32 bits per pixel) and grayscale
// (8 bits per pixel) images without color map. Importing the package registers the decoder
// with the image package.
package tga

import (
	"bufio"
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

const headerSize = 18

const (
	typeTrueColor    = 2
	typeGray         = 3
	typeTrueColorRLE = 10
	typeGrayRLE      = 11
)

const (
	descriptorAlphaBits = 0x0f
	descriptorRightLeft = 0x10
	descriptorTopDown   = 0x20
)

var ErrUnsupported = errors.New("tga: unsupported image")

type header struct {
	idLength     uint8
	colorMapType uint8
	imageType    uint8
	colorMapLen  uint16
	colorMapBits uint8
	width        int
	height       int
	pixelDepth   uint8
	descriptor   uint8
}

func init() {
	for _, magic := range []string{"?\x00\x02", "?\x00\x03", "?\x00\x0a", "?\x00\x0b"} {
		image.RegisterFormat("tga", magic, Decode, DecodeConfig)
	}
}

func readHeader(r io.Reader) (header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return header{}, errors.Wrap(err, "tga: short header")
	}
	h := header{
		idLength:     buf[0],
		colorMapType: buf[1],
		imageType:    buf[2],
		colorMapLen:  binary.LittleEndian.Uint16(buf[5:7]),
		colorMapBits: buf[7],
		width:        int(binary.LittleEndian.Uint16(buf[12:14])),
		height:       int(binary.LittleEndian.Uint16(buf[14:16])),
		pixelDepth:   buf[16],
		descriptor:   buf[17],
	}
	if h.colorMapType != 0 {
		return header{}, errors.Wrap(ErrUnsupported, "color mapped images")
	}
	switch h.imageType {
	case typeTrueColor, typeTrueColorRLE:
		if h.pixelDepth != 24 && h.pixelDepth != 32 {
			return header{}, errors.Wrapf(ErrUnsupported, "%d bit truecolor", h.pixelDepth)
		}
	case typeGray, typeGrayRLE:
		if h.pixelDepth != 8 {
			return header{}, errors.Wrapf(ErrUnsupported, "%d bit grayscale", h.pixelDepth)
		}
	default:
		return header{}, errors.Wrapf(ErrUnsupported, "image type %d", h.imageType)
	}
	return h, nil
}

func (h header) bytesPerPixel() int {
	return int(h.pixelDepth) / 8
}

func (h header) rle() bool {
	return h.imageType == typeTrueColorRLE || h.imageType == typeGrayRLE
}

func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.NRGBAModel
	if h.imageType == typeGray || h.imageType == typeGrayRLE {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

// Decode returns an *image.NRGBA with the top row first, whatever the file's origin.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	skip := int64(h.idLength)
	if _, err := io.CopyN(io.Discard, br, skip); err != nil {
		return nil, errors.Wrap(err, "tga: short image id")
	}

	bpp := h.bytesPerPixel()
	data := make([]byte, h.width*h.height*bpp)
	if h.rle() {
		err = readRLE(br, data, bpp)
	} else {
		_, err = io.ReadFull(br, data)
	}
	if err != nil {
		return nil, errors.Wrap(err, "tga: short pixel data")
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	hasAlpha := bpp == 4 && h.descriptor&descriptorAlphaBits != 0
	for row := 0; row < h.height; row++ {
		y := h.height - 1 - row
		if h.descriptor&descriptorTopDown != 0 {
			y = row
		}
		for col := 0; col < h.width; col++ {
			x := col
			if h.descriptor&descriptorRightLeft != 0 {
				x = h.width - 1 - col
			}
			p := data[(row*h.width+col)*bpp:]
			c := color.NRGBA{A: 255}
			switch bpp {
			case 1:
				c.R, c.G, c.B = p[0], p[0], p[0]
			default:
				c.B, c.G, c.R = p[0], p[1], p[2]
				if hasAlpha {
					c.A = p[3]
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func readRLE(r io.ByteReader, data []byte, bpp int) error {
	pixel := make([]byte, bpp)
	for i := 0; i < len(data); {
		packet, err := r.ReadByte()
		if err != nil {
			return err
		}
		count := int(packet&0x7f) + 1
		if i+count*bpp > len(data) {
			return errors.New("tga: run exceeds image")
		}
		if packet&0x80 != 0 {
			for k := range pixel {
				if pixel[k], err = r.ReadByte(); err != nil {
					return err
				}
			}
			for n := 0; n < count; n++ {
				copy(data[i:], pixel)
				i += bpp
			}
			continue
		}
		for n := 0; n < count*bpp; n++ {
			if data[i], err = r.ReadByte(); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

// Encode writes m as an uncompressed 32 bit TGA with bottom-left origin.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return errors.Errorf("tga: image %dx%d too large", b.Dx(), b.Dy())
	}
	var head [headerSize]byte
	head[2] = typeTrueColor
	binary.LittleEndian.PutUint16(head[12:14], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(head[14:16], uint16(b.Dy()))
	head[16] = 32
	head[17] = 8
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(head[:]); err != nil {
		return err
	}
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if _, err := bw.Write([]byte{c.B, c.G, c.R, c.A}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
