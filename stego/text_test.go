package stego

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"covertcomm/internal/crypto/kdf"
	"covertcomm/internal/random"
	"covertcomm/internal/testsuite"
)

func TestTextZWC(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		tz, err := newTextZWC([]byte("hello world!"))
		require.NoError(t, err)

		require.Equal(t, uint64(24), tz.Capacity())
		require.Equal(t, uint64(12), tz.Slots())

		tz, err = newTextZWC(nil)
		require.NoError(t, err)
		require.Zero(t, tz.Capacity())
	})

	t.Run("gap numbering", func(t *testing.T) {
		// no gap inside the crlf pair and before the combining mark
		tz, err := newTextZWC([]byte("ab\r\ncdéf"))
		require.NoError(t, err)

		require.Equal(t, uint64(7), tz.Slots())
		require.Equal(t, []int{0, 1, 3, 4, 5, 7, 8}, tz.gaps)
	})

	t.Run("round trip", func(t *testing.T) {
		carrier := []byte(strings.Repeat("steganography ", 8))

		tz, err := newTextZWC(carrier)
		require.NoError(t, err)
		require.Equal(t, uint64(112), tz.Slots())

		pg, err := newPlacement(random.Bytes(kdf.SeedSize), tz.Slots(), FormatText, VariantZWC)
		require.NoError(t, err)
		bits := splitBits(random.Bytes(28))
		positions := drawPositions(pg, tz.Slots(), nil)

		err = tz.Embed(bits, positions)
		require.NoError(t, err)

		output, err := tz.Encode()
		require.NoError(t, err)

		tz2, err := newTextZWC(output)
		require.NoError(t, err)
		require.Equal(t, tz.runes, tz2.runes)

		extracted, err := tz2.Extract(positions)
		require.NoError(t, err)
		require.Equal(t, bits, extracted)
	})

	t.Run("insertion order", func(t *testing.T) {
		tz, err := newTextZWC([]byte("abc"))
		require.NoError(t, err)

		err = tz.Embed([]byte{1, 1, 0, 1}, []uint64{2, 0})
		require.NoError(t, err)

		output, err := tz.Encode()
		require.NoError(t, err)
		require.Equal(t, "a‌bc⁠", string(output))
	})

	t.Run("empty gap reads as zero bits", func(t *testing.T) {
		tz, err := newTextZWC([]byte("abcd"))
		require.NoError(t, err)

		err = tz.Embed([]byte{1, 1}, []uint64{1})
		require.NoError(t, err)

		output, err := tz.Encode()
		require.NoError(t, err)

		tz2, err := newTextZWC(output)
		require.NoError(t, err)

		bits, err := tz2.Extract([]uint64{0, 1, 2, 3})
		require.NoError(t, err)
		require.Equal(t, []byte{0, 0, 1, 1, 0, 0, 0, 0}, bits)
	})

	t.Run("carrier already contains zero width characters", func(t *testing.T) {
		tz, err := newTextZWC([]byte("a​b"))
		require.NoError(t, err)

		err = tz.Embed([]byte{0, 0}, []uint64{0})
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("misplaced zero width character", func(t *testing.T) {
		for _, carrier := range []string{
			"​ab",         // before any visible rune
			"a\r​\nb",     // inside the crlf pair
			"ae​́b",  // before a combining mark
			"a​‌bc",  // two characters in one gap
		} {
			tz, err := newTextZWC([]byte(carrier))
			require.NoError(t, err)

			bits, err := tz.Extract([]uint64{0})
			require.ErrorIs(t, err, ErrFormat)
			require.Nil(t, bits)
		}
	})

	t.Run("invalid utf8 text", func(t *testing.T) {
		tz, err := newTextZWC([]byte{0xFF, 0xFE, 0xFD})
		require.ErrorIs(t, err, ErrUnsupportedFormat)
		require.Nil(t, tz)
	})

	t.Run("invalid bit stream length", func(t *testing.T) {
		tz, err := newTextZWC([]byte("abc"))
		require.NoError(t, err)

		defer testsuite.DeferForPanic(t)
		_ = tz.Embed([]byte{1, 1, 0}, []uint64{0})
	})
}
