package stego

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/pkg/errors"
)

// decodeImage is used to decode a png carrier and normalize it to the
// 8 bit NRGBA memory layout. The returned image is a new copy, pixel
// values are preserved exactly for all 8 bit source formats.
func decodeImage(carrier []byte) (*image.NRGBA, error) {
	p, err := png.Decode(bytes.NewReader(carrier))
	if err != nil {
		return nil, errors.WithMessage(ErrUnsupportedFormat, err.Error())
	}
	rect := p.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(img, img.Bounds(), p, rect.Min, draw.Src)
	return img, nil
}

// encodeImage is used to encode the modified image back to png.
func encodeImage(img *image.NRGBA, size int, level png.CompressionLevel) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	encoder := png.Encoder{
		CompressionLevel: level,
	}
	err := encoder.Encode(buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageLSB embeds one bit to the least significant bit of each color
// channel, the alpha channel is not touched.
//
// R: 1111 111[bit1]
// G: 1111 111[bit2]
// B: 1111 111[bit3]
//
// Position p selects pixel p/3 and color channel p%3.
type imageLSB struct {
	img   *image.NRGBA
	size  int
	level png.CompressionLevel
}

func newImageLSB(carrier []byte, opts *Options) (*imageLSB, error) {
	img, err := decodeImage(carrier)
	if err != nil {
		return nil, err
	}
	il := imageLSB{
		img:   img,
		size:  len(carrier),
		level: opts.PNGCompression,
	}
	return &il, nil
}

// Capacity is used to calculate the number of bits that the image can
// hold, three bits for each pixel.
func (il *imageLSB) Capacity() uint64 {
	rect := il.img.Bounds()
	return uint64(rect.Dx()) * uint64(rect.Dy()) * 3
}

// Slots is used to get the position domain size, one bit one position.
func (il *imageLSB) Slots() uint64 {
	return il.Capacity()
}

// Embed is used to write bits to the least significant bits selected
// by the drawn positions.
func (il *imageLSB) Embed(bits []byte, positions []uint64) error {
	pix := il.img.Pix
	for i, bit := range bits {
		position := positions[i]
		offset := position/3*4 + position%3
		b := pix[offset]
		switch {
		case bit == 0 && b&1 == 1:
			b--
		case bit == 1 && b&1 == 0:
			b++
		}
		pix[offset] = b
	}
	return nil
}

// Extract is used to read bits from the least significant bits selected
// by the drawn positions.
func (il *imageLSB) Extract(positions []uint64) ([]byte, error) {
	pix := il.img.Pix
	bits := make([]byte, len(positions))
	for i, position := range positions {
		offset := position/3*4 + position%3
		bits[i] = pix[offset] & 1
	}
	return bits, nil
}

// Encode is used to encode the modified image back to png bytes.
func (il *imageLSB) Encode() ([]byte, error) {
	return encodeImage(il.img, il.size, il.level)
}
