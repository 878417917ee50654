package stego

import (
	"fmt"

	"github.com/pkg/errors"

	"covertcomm/internal/convert"
	"covertcomm/internal/crypto/aes"
	"covertcomm/internal/crypto/kdf"
	"covertcomm/internal/security"
)

const (
	// FormatPNG is a lossless png image carrier.
	FormatPNG Format = 1 + iota

	// FormatWAV is an uncompressed 16 bit mono wav carrier.
	FormatWAV

	// FormatAVI is an avi container with a raw rgb video stream.
	FormatAVI

	// FormatText is a plain utf8 text carrier.
	FormatText
)

// Format is the carrier container format.
type Format int

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWAV:
		return "wav"
	case FormatAVI:
		return "avi"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("invalid carrier format: %d", int(f))
	}
}

const (
	// VariantLSB replaces the least significant bits of image pixels,
	// audio samples or video frame bytes.
	VariantLSB Variant = 1 + iota

	// VariantDCT quantizes one mid band DCT coefficient of each 8x8
	// image block.
	VariantDCT

	// VariantDWT adjusts the parity of one wavelet detail coefficient
	// of each 2x2 image block.
	VariantDWT

	// VariantZWC inserts zero width characters between visible runes.
	VariantZWC
)

// Variant is the embedding transform.
type Variant int

func (v Variant) String() string {
	switch v {
	case VariantLSB:
		return "lsb"
	case VariantDCT:
		return "dct"
	case VariantDWT:
		return "dwt"
	case VariantZWC:
		return "zwc"
	default:
		return fmt.Sprintf("invalid embedding variant: %d", int(v))
	}
}

// codec is the embed and extract capability of one carrier type.
type codec interface {
	// Capacity is used to calculate the number of bits that the carrier
	// can hold.
	Capacity() uint64

	// Slots is used to get the position domain size, most carriers hold
	// one bit for each position.
	Slots() uint64

	// Embed is used to write bits to the drawn positions, each position
	// receives Capacity/Slots bits.
	Embed(bits []byte, positions []uint64) error

	// Extract is used to read bits from the drawn positions.
	Extract(positions []uint64) ([]byte, error)

	// Encode is used to build the stego output in the native byte
	// format of the carrier.
	Encode() ([]byte, error)
}

// newCodec is used to select and build the codec for a format and
// variant pair.
func newCodec(carrier []byte, format Format, variant Variant, opts *Options) (codec, error) {
	switch format {
	case FormatPNG:
		switch variant {
		case VariantLSB:
			return newImageLSB(carrier, opts)
		case VariantDCT:
			return newImageDCT(carrier, opts)
		case VariantDWT:
			return newImageDWT(carrier, opts)
		}
	case FormatWAV:
		if variant == VariantLSB {
			return newAudioLSB(carrier)
		}
	case FormatAVI:
		if variant == VariantLSB {
			return newVideoLSB(carrier, opts)
		}
	case FormatText:
		if variant == VariantZWC {
			return newTextZWC(carrier)
		}
	}
	return nil, errors.WithMessagef(ErrUnsupportedFormat, "%s with %s", format, variant)
}

// bitsPerSlot is used to get the number of bits that one position
// carries, the caller must make sure the carrier is not empty.
func bitsPerSlot(c codec) uint64 {
	return c.Capacity() / c.Slots()
}

// drawHeaderPositions is used to draw the frame header positions, the
// seed is fixed and public because the header stores the salt that the
// password derived seed needs.
func drawHeaderPositions(c codec, format Format, variant Variant) ([]uint64, error) {
	pg, err := newPlacement(headerSeed(), c.Slots(), format, variant)
	if err != nil {
		return nil, err
	}
	return drawPositions(pg, uint64(frameHeaderSize*8)/bitsPerSlot(c), nil), nil
}

// drawPayloadPositions is used to draw the positions of size cipher
// data bytes with the password derived seed, positions taken by the
// header are skipped.
func drawPayloadPositions(
	c codec, format Format, variant Variant,
	seed []byte, size int, headerPos []uint64,
) ([]uint64, error) {
	pg, err := newPlacement(seed, c.Slots(), format, variant)
	if err != nil {
		return nil, err
	}
	skip := make(map[uint64]struct{}, len(headerPos))
	for _, position := range headerPos {
		skip[position] = struct{}{}
	}
	return drawPositions(pg, uint64(size)*8/bitsPerSlot(c), skip), nil
}

// Hide is used to encrypt a message with the password and embed it to
// a copy of the carrier, the carrier itself is never modified. The
// cipher data positions are derived from the password, without it the
// payload can not be located.
func Hide(carrier []byte, format Format, message []byte, password string, variant Variant) ([]byte, error) {
	return HideWithOptions(carrier, format, message, password, variant, nil)
}

// HideWithOptions is like Hide but with optional parameters.
func HideWithOptions(
	carrier []byte, format Format, message []byte,
	password string, variant Variant, opts *Options,
) ([]byte, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(message) > maxCipherDataSize {
		return nil, errors.WithMessage(ErrCapacityExceeded, "message is too large")
	}
	if opts == nil {
		opts = new(Options)
	}
	opts, err := opts.Apply()
	if err != nil {
		return nil, err
	}
	c, err := newCodec(carrier, format, variant, opts)
	if err != nil {
		return nil, err
	}
	need := frameBits(len(message))
	if capacity := c.Capacity(); need > capacity {
		const msg = "frame needs %d bits but carrier can only hold %d bits"
		return nil, errors.WithMessagef(ErrCapacityExceeded, msg, need, capacity)
	}
	salt, err := kdf.GenerateSalt()
	if err != nil {
		return nil, err
	}
	key, err := kdf.DeriveKey([]byte(password), salt)
	if err != nil {
		return nil, err
	}
	defer security.CoverBytes(key)
	seed, err := kdf.DeriveSeed([]byte(password), salt)
	if err != nil {
		return nil, err
	}
	defer security.CoverBytes(seed)
	nonce, err := aes.GenerateNonce()
	if err != nil {
		return nil, err
	}
	header := packFrameHeader(salt, nonce, len(message))
	gcm, err := aes.NewGCM(key)
	if err != nil {
		return nil, err
	}
	cipherData, err := gcm.EncryptWithNonce(message, nonce, header)
	if err != nil {
		return nil, err
	}
	headerPos, err := drawHeaderPositions(c, format, variant)
	if err != nil {
		return nil, err
	}
	payloadPos, err := drawPayloadPositions(c, format, variant, seed, len(cipherData), headerPos)
	if err != nil {
		return nil, err
	}
	bits := splitBits(convert.MergeBytes(header, cipherData))
	err = c.Embed(bits, append(headerPos, payloadPos...))
	if err != nil {
		return nil, err
	}
	return c.Encode()
}

// Extract is used to locate the frame in the carrier with the password
// and decrypt the embedded message.
func Extract(carrier []byte, format Format, password string, variant Variant) ([]byte, error) {
	opts, err := new(Options).Apply()
	if err != nil {
		return nil, err
	}
	c, err := newCodec(carrier, format, variant, opts)
	if err != nil {
		return nil, err
	}
	capacity := c.Capacity()
	if capacity < frameBits(1) {
		return nil, errors.WithMessage(ErrFormat, "carrier is too small to contain a frame")
	}
	headerPos, err := drawHeaderPositions(c, format, variant)
	if err != nil {
		return nil, err
	}
	headerBits, err := c.Extract(headerPos)
	if err != nil {
		return nil, err
	}
	headerBytes := mergeBits(headerBits)
	header, err := unpackFrameHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	if frameBits(header.size) > capacity {
		return nil, errors.WithMessage(ErrFormat, "frame is larger than the carrier capacity")
	}
	seed, err := kdf.DeriveSeed([]byte(password), header.salt)
	if err != nil {
		return nil, err
	}
	defer security.CoverBytes(seed)
	payloadPos, err := drawPayloadPositions(c, format, variant, seed, header.size+aes.TagSize, headerPos)
	if err != nil {
		return nil, err
	}
	cipherBits, err := c.Extract(payloadPos)
	if err != nil {
		return nil, err
	}
	key, err := kdf.DeriveKey([]byte(password), header.salt)
	if err != nil {
		return nil, err
	}
	defer security.CoverBytes(key)
	gcm, err := aes.NewGCM(key)
	if err != nil {
		return nil, err
	}
	message, err := gcm.DecryptWithNonce(mergeBits(cipherBits), header.nonce, headerBytes)
	if err != nil {
		return nil, errors.WithMessage(ErrAuthentication, "wrong password or modified carrier")
	}
	return message, nil
}

// Capacity is used to calculate the number of bits that the carrier
// can hold with the given variant, a message of (Capacity/8)-52 bytes
// fills the carrier exactly.
func Capacity(carrier []byte, format Format, variant Variant) (uint64, error) {
	opts, err := new(Options).Apply()
	if err != nil {
		return 0, err
	}
	c, err := newCodec(carrier, format, variant, opts)
	if err != nil {
		return 0, err
	}
	return c.Capacity(), nil
}
