package stego

import (
	"image"
	"image/png"
)

// imageDWT embeds one bit to each 2x2 pixel block of a color channel.
// The block is transformed with the one level integer S transform, the
// bit is stored to the parity of the horizontal detail coefficient,
// then the block is transformed back.
//
// forward              inverse
//   s = (a + b) >> 1     a = s + ((d + 1) >> 1)
//   d = a - b            b = a - d
//
// The transform maps integers to integers both ways, so the scheme is
// exact. Pixels of an embedded block are clamped to [1, 254] first, a
// parity move changes each pixel by one at most, so the inverse can
// not overflow a color channel.
//
// Position p selects color channel p/(hw*hh), then block column and
// row inside the half resolution plane, hw and hh are the half width
// and the half height.

const dwtMargin = 1

type imageDWT struct {
	img   *image.NRGBA
	halfW uint64
	halfH uint64
	size  int
	level png.CompressionLevel
}

func newImageDWT(carrier []byte, opts *Options) (*imageDWT, error) {
	img, err := decodeImage(carrier)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	iw := imageDWT{
		img:   img,
		halfW: uint64(rect.Dx() / 2),
		halfH: uint64(rect.Dy() / 2),
		size:  len(carrier),
		level: opts.PNGCompression,
	}
	return &iw, nil
}

// Capacity is used to calculate the number of bits that the image can
// hold, one bit for each 2x2 pixel block of each color channel.
func (iw *imageDWT) Capacity() uint64 {
	return 3 * iw.halfW * iw.halfH
}

// Slots is used to get the position domain size, one bit one position.
func (iw *imageDWT) Slots() uint64 {
	return iw.Capacity()
}

// Embed is used to write bits to the detail coefficients selected by
// the drawn positions.
func (iw *imageDWT) Embed(bits []byte, positions []uint64) error {
	pix := iw.img.Pix
	for i, bit := range bits {
		o00, o01, o10, o11 := iw.blockOffsets(positions[i])
		a00 := int(clampDWT(pix[o00]))
		a01 := int(clampDWT(pix[o01]))
		a10 := int(clampDWT(pix[o10]))
		a11 := int(clampDWT(pix[o11]))
		// forward, the approximation coefficients s0 and s1 are kept
		s0 := (a00 + a01) >> 1
		d0 := a00 - a01
		s1 := (a10 + a11) >> 1
		d1 := a10 - a11
		hl := (d0 + d1) >> 1
		hh := d0 - d1
		if byte(hl&1) != bit {
			if hl >= 0 {
				hl++
			} else {
				hl--
			}
		}
		// inverse
		d0 = hl + (hh+1)>>1
		d1 = d0 - hh
		a00 = s0 + (d0+1)>>1
		a01 = a00 - d0
		a10 = s1 + (d1+1)>>1
		a11 = a10 - d1
		pix[o00] = byte(a00)
		pix[o01] = byte(a01)
		pix[o10] = byte(a10)
		pix[o11] = byte(a11)
	}
	return nil
}

// Extract is used to read bits from the detail coefficients selected
// by the drawn positions.
func (iw *imageDWT) Extract(positions []uint64) ([]byte, error) {
	pix := iw.img.Pix
	bits := make([]byte, len(positions))
	for i, position := range positions {
		o00, o01, o10, o11 := iw.blockOffsets(position)
		d0 := int(pix[o00]) - int(pix[o01])
		d1 := int(pix[o10]) - int(pix[o11])
		hl := (d0 + d1) >> 1
		bits[i] = byte(hl & 1)
	}
	return bits, nil
}

// Encode is used to encode the modified image back to png bytes.
func (iw *imageDWT) Encode() ([]byte, error) {
	return encodeImage(iw.img, iw.size, iw.level)
}

func (iw *imageDWT) blockOffsets(position uint64) (o00, o01, o10, o11 int) {
	plane := iw.halfW * iw.halfH
	ch := int(position / plane)
	rest := position % plane
	cx := int(rest % iw.halfW)
	cy := int(rest / iw.halfW)
	o00 = iw.img.PixOffset(2*cx, 2*cy) + ch
	o01 = iw.img.PixOffset(2*cx+1, 2*cy) + ch
	o10 = iw.img.PixOffset(2*cx, 2*cy+1) + ch
	o11 = iw.img.PixOffset(2*cx+1, 2*cy+1) + ch
	return
}

func clampDWT(b byte) byte {
	if b < dwtMargin {
		return dwtMargin
	}
	if b > 255-dwtMargin {
		return 255 - dwtMargin
	}
	return b
}
