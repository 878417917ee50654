package stego

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// zero width alphabet, one character encodes two bits.
const (
	zwsp = '​' // zero width space           00
	zwnj = '‌' // zero width non joiner      01
	zwj  = '‍' // zero width joiner          10
	wj   = '⁠' // word joiner                11
)

var zwcAlphabet = [4]rune{zwsp, zwnj, zwj, wj}

func zwcValue(r rune) (byte, bool) {
	switch r {
	case zwsp:
		return 0, true
	case zwnj:
		return 1, true
	case zwj:
		return 2, true
	case wj:
		return 3, true
	}
	return 0, false
}

// textZWC embeds two bits to each gap between visible runes with one
// zero width character, position p selects gap p. A gap does not exist
// inside a crlf pair or before a combining mark, an insertion there
// would change how the text renders or normalizes.
//
// The gaps are numbered over the visible runes, so any visible edit
// between hide and extract renumbers them and the frame is lost, the
// carrier is fragile by nature.
type textZWC struct {
	runes []rune // visible runes, the zero width alphabet removed
	gaps  []int  // gap g sits after visible rune gaps[g]

	// found zero width characters, resolved to gap values
	values map[uint64]byte
	found  int
	broken bool

	inserts map[int]rune // planned insertion after each visible rune
}

func newTextZWC(carrier []byte) (*textZWC, error) {
	if !utf8.Valid(carrier) {
		return nil, errors.WithMessage(ErrUnsupportedFormat, "carrier is not valid utf8 text")
	}
	tz := textZWC{
		values: make(map[uint64]byte),
	}
	type foundZWC struct {
		after int // index of the visible rune before this character
		value byte
	}
	var found []foundZWC
	for _, r := range string(carrier) {
		if v, ok := zwcValue(r); ok {
			found = append(found, foundZWC{after: len(tz.runes) - 1, value: v})
			continue
		}
		tz.runes = append(tz.runes, r)
	}
	tz.found = len(found)
	// number the gaps over the visible runes, the stego text has the
	// same visible runes as the carrier, so both sides get the same
	// numbering
	gapIdx := make(map[int]uint64)
	for i := range tz.runes {
		if gapAfter(tz.runes, i) {
			gapIdx[i] = uint64(len(tz.gaps))
			tz.gaps = append(tz.gaps, i)
		}
	}
	// resolve the found characters to gap values
	for i := 0; i < len(found); i++ {
		g, ok := gapIdx[found[i].after]
		if !ok {
			tz.broken = true
			break
		}
		if _, ok := tz.values[g]; ok {
			tz.broken = true
			break
		}
		tz.values[g] = found[i].value
	}
	return &tz, nil
}

// gapAfter reports if a zero width character can sit after rune i, it
// must not split a crlf pair and not sit before a combining mark.
func gapAfter(runes []rune, i int) bool {
	if i+1 >= len(runes) {
		return true
	}
	next := runes[i+1]
	if runes[i] == '\r' && next == '\n' {
		return false
	}
	return !unicode.In(next, unicode.Mn, unicode.Me, unicode.Mc)
}

// Capacity is used to calculate the number of bits that the text can
// hold, two bits for each gap.
func (tz *textZWC) Capacity() uint64 {
	return 2 * uint64(len(tz.gaps))
}

// Slots is used to get the position domain size, one gap holds two
// bits.
func (tz *textZWC) Slots() uint64 {
	return uint64(len(tz.gaps))
}

// Embed is used to insert zero width characters to the gaps selected
// by the drawn positions, each drawn gap receives two bits of the
// stream.
func (tz *textZWC) Embed(bits []byte, positions []uint64) error {
	if tz.found > 0 {
		return errors.WithMessage(ErrUnsupportedFormat, "carrier already contains zero width characters")
	}
	if len(bits) != 2*len(positions) {
		panic("stego: internal error")
	}
	if tz.inserts == nil {
		tz.inserts = make(map[int]rune, len(positions))
	}
	for i, g := range positions {
		tz.inserts[tz.gaps[g]] = zwcAlphabet[bits[2*i]<<1|bits[2*i+1]]
	}
	return nil
}

// Extract is used to read gap values selected by the drawn positions,
// a gap without a zero width character reads as zero bits.
func (tz *textZWC) Extract(positions []uint64) ([]byte, error) {
	if tz.broken {
		return nil, errors.WithMessage(ErrFormat, "misplaced zero width character")
	}
	bits := make([]byte, 0, 2*len(positions))
	for _, g := range positions {
		v := tz.values[g]
		bits = append(bits, v>>1, v&1)
	}
	return bits, nil
}

// Encode is used to build the stego text with the planned insertions.
func (tz *textZWC) Encode() ([]byte, error) {
	builder := strings.Builder{}
	for i, r := range tz.runes {
		builder.WriteRune(r)
		if ins, ok := tz.inserts[i]; ok {
			builder.WriteRune(ins)
		}
	}
	return []byte(builder.String()), nil
}
