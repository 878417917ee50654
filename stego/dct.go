package stego

import (
	"image"
	"image/png"
	"math"
)

// imageDCT embeds one bit to each 8x8 pixel block of the green channel.
// The block is transformed with the orthonormal DCT-II, the mid band
// coefficient (4,4) is moved to the nearest quantization step with the
// same parity as the bit, then the block is transformed back.
//
// Pixels of an embedded block are clamped to [4, 251] first. A parity
// move changes the coefficient by one step at most, that changes each
// pixel by four at most, so the inverse transform can not overflow a
// color channel. The pixel rounding moves the coefficient by four at
// most as well, that is below the half step, so the parity survives
// the png round trip.

const (
	dctBlockSize = 8
	dctCoeffU    = 4
	dctCoeffV    = 4
	dctStep      = 16
	dctMargin    = 4
)

// dctBasis[u][i] = a(u) * cos((2*i+1) * u * pi / 16)
var dctBasis [dctBlockSize][dctBlockSize]float64

func init() {
	for u := 0; u < dctBlockSize; u++ {
		a := math.Sqrt(2.0 / dctBlockSize)
		if u == 0 {
			a = math.Sqrt(1.0 / dctBlockSize)
		}
		for i := 0; i < dctBlockSize; i++ {
			dctBasis[u][i] = a * math.Cos(float64(2*i+1)*float64(u)*math.Pi/(2*dctBlockSize))
		}
	}
}

type imageDCT struct {
	img    *image.NRGBA
	blockW uint64
	blockH uint64
	size   int
	level  png.CompressionLevel
}

func newImageDCT(carrier []byte, opts *Options) (*imageDCT, error) {
	img, err := decodeImage(carrier)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	id := imageDCT{
		img:    img,
		blockW: uint64(rect.Dx() / dctBlockSize),
		blockH: uint64(rect.Dy() / dctBlockSize),
		size:   len(carrier),
		level:  opts.PNGCompression,
	}
	return &id, nil
}

// Capacity is used to calculate the number of bits that the image can
// hold, one bit for each full 8x8 pixel block.
func (id *imageDCT) Capacity() uint64 {
	return id.blockW * id.blockH
}

// Slots is used to get the position domain size, one bit one position.
func (id *imageDCT) Slots() uint64 {
	return id.Capacity()
}

// Embed is used to write bits to the block coefficients selected by the
// drawn positions.
func (id *imageDCT) Embed(bits []byte, positions []uint64) error {
	var block [dctBlockSize][dctBlockSize]float64
	for i, bit := range bits {
		position := positions[i]
		bx := int(position % id.blockW)
		by := int(position / id.blockW)
		id.loadBlock(bx, by, &block, true)
		forwardDCT(&block)
		c := block[dctCoeffU][dctCoeffV]
		q := math.Round(c / dctStep)
		if byte(int64(q)&1) != bit {
			// move to the nearest step with the right parity
			if c > q*dctStep {
				q++
			} else {
				q--
			}
		}
		block[dctCoeffU][dctCoeffV] = q * dctStep
		inverseDCT(&block)
		id.storeBlock(bx, by, &block)
	}
	return nil
}

// Extract is used to read bits from the block coefficients selected by
// the drawn positions.
func (id *imageDCT) Extract(positions []uint64) ([]byte, error) {
	var block [dctBlockSize][dctBlockSize]float64
	bits := make([]byte, len(positions))
	for i, position := range positions {
		bx := int(position % id.blockW)
		by := int(position / id.blockW)
		id.loadBlock(bx, by, &block, false)
		forwardDCT(&block)
		q := int64(math.Round(block[dctCoeffU][dctCoeffV] / dctStep))
		bits[i] = byte(q & 1)
	}
	return bits, nil
}

// Encode is used to encode the modified image back to png bytes.
func (id *imageDCT) Encode() ([]byte, error) {
	return encodeImage(id.img, id.size, id.level)
}

func (id *imageDCT) loadBlock(bx, by int, block *[dctBlockSize][dctBlockSize]float64, clamp bool) {
	for i := 0; i < dctBlockSize; i++ {
		y := by*dctBlockSize + i
		for j := 0; j < dctBlockSize; j++ {
			x := bx*dctBlockSize + j
			g := id.img.Pix[id.img.PixOffset(x, y)+1]
			if clamp {
				if g < dctMargin {
					g = dctMargin
				} else if g > 255-dctMargin {
					g = 255 - dctMargin
				}
			}
			block[i][j] = float64(g)
		}
	}
}

func (id *imageDCT) storeBlock(bx, by int, block *[dctBlockSize][dctBlockSize]float64) {
	for i := 0; i < dctBlockSize; i++ {
		y := by*dctBlockSize + i
		for j := 0; j < dctBlockSize; j++ {
			x := bx*dctBlockSize + j
			v := math.Round(block[i][j])
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			id.img.Pix[id.img.PixOffset(x, y)+1] = byte(v)
		}
	}
}

// forwardDCT applies the orthonormal two dimensional DCT-II in place.
func forwardDCT(block *[dctBlockSize][dctBlockSize]float64) {
	var tmp [dctBlockSize][dctBlockSize]float64
	for u := 0; u < dctBlockSize; u++ {
		for j := 0; j < dctBlockSize; j++ {
			var sum float64
			for i := 0; i < dctBlockSize; i++ {
				sum += dctBasis[u][i] * block[i][j]
			}
			tmp[u][j] = sum
		}
	}
	for u := 0; u < dctBlockSize; u++ {
		for v := 0; v < dctBlockSize; v++ {
			var sum float64
			for j := 0; j < dctBlockSize; j++ {
				sum += dctBasis[v][j] * tmp[u][j]
			}
			block[u][v] = sum
		}
	}
}

// inverseDCT applies the orthonormal two dimensional DCT-III in place.
func inverseDCT(block *[dctBlockSize][dctBlockSize]float64) {
	var tmp [dctBlockSize][dctBlockSize]float64
	for i := 0; i < dctBlockSize; i++ {
		for v := 0; v < dctBlockSize; v++ {
			var sum float64
			for u := 0; u < dctBlockSize; u++ {
				sum += dctBasis[u][i] * block[u][v]
			}
			tmp[i][v] = sum
		}
	}
	for i := 0; i < dctBlockSize; i++ {
		for j := 0; j < dctBlockSize; j++ {
			var sum float64
			for v := 0; v < dctBlockSize; v++ {
				sum += dctBasis[v][j] * tmp[i][v]
			}
			block[i][j] = sum
		}
	}
}
