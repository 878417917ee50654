package stego

import (
	"bytes"
	"math"

	"github.com/pkg/errors"

	"covertcomm/internal/convert"
	"covertcomm/internal/crypto/aes"
	"covertcomm/internal/crypto/kdf"
)

// frame structure in the carrier bit stream
//
// +---------+----------+----------+-------------+-------------------+
// |  magic  |   salt   |  nonce   | cipher size | cipher data + tag |
// +---------+----------+----------+-------------+-------------------+
// | 4 bytes | 16 bytes | 12 bytes |   4 bytes   |        var        |
// +---------+----------+----------+-------------+-------------------+
//
// Each frame byte is embedded most significant bit first. The first
// four fields are the additional data for AES-GCM, so a frame header
// can not be recombined with cipher data from another frame.

// frameMagic marks the begin of a frame, the last byte is the version.
var frameMagic = []byte{'C', 'V', 'C', 0x01}

const (
	frameMagicSize   = 4
	frameDataLenSize = 4
	frameHeaderSize  = frameMagicSize + kdf.SaltSize + aes.NonceSize + frameDataLenSize

	// maxCipherDataSize is used to reject the absurd size field that
	// read from a damaged or foreign frame.
	maxCipherDataSize = math.MaxInt32 - frameHeaderSize - aes.TagSize
)

// frameHeader contains the parsed plain text part of a frame.
type frameHeader struct {
	salt  []byte
	nonce []byte
	size  int // cipher data size, not include the tag
}

// packFrameHeader is used to build the frame header, the result is
// also the additional data for AES-GCM.
func packFrameHeader(salt, nonce []byte, size int) []byte {
	return convert.MergeBytes(frameMagic, salt, nonce, convert.BEUint32ToBytes(uint32(size)))
}

// unpackFrameHeader is used to parse and validate a frame header that
// was read back from a carrier.
func unpackFrameHeader(b []byte) (*frameHeader, error) {
	if len(b) != frameHeaderSize {
		panic("stego: internal error")
	}
	if !bytes.Equal(b[:frameMagicSize], frameMagic) {
		return nil, errors.WithMessage(ErrFormat, "invalid magic number")
	}
	offset := frameMagicSize
	salt := b[offset : offset+kdf.SaltSize]
	offset += kdf.SaltSize
	nonce := b[offset : offset+aes.NonceSize]
	offset += aes.NonceSize
	size := convert.BEBytesToUint32(b[offset : offset+frameDataLenSize])
	if size < 1 || size > uint32(maxCipherDataSize) {
		return nil, errors.WithMessage(ErrFormat, "invalid cipher data size")
	}
	header := frameHeader{
		salt:  salt,
		nonce: nonce,
		size:  int(size),
	}
	return &header, nil
}

// frameBits is used to calculate the number of carrier bits that a
// frame with the given message size will occupy.
func frameBits(messageSize int) uint64 {
	return uint64(frameHeaderSize+messageSize+aes.TagSize) * 8
}

// splitBits is used to split bytes to bits, each output byte holds one
// bit, the most significant bit of each input byte is the first.
func splitBits(b []byte) []byte {
	bits := make([]byte, len(b)*8)
	for i, byt := range b {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = byt << j >> 7
		}
	}
	return bits
}

// mergeBits is used to merge bits back to bytes, it is the reverse of
// splitBits.
func mergeBits(bits []byte) []byte {
	if len(bits)%8 != 0 {
		panic("stego: internal error")
	}
	b := make([]byte, len(bits)/8)
	for i := range b {
		var byt byte
		for j := 0; j < 8; j++ {
			byt = byt<<1 | bits[i*8+j]&1
		}
		b[i] = byt
	}
	return b
}
