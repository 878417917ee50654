package stego

import (
	"crypto/sha256"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"

	"covertcomm/internal/convert"
)

// placeLabel is the domain separation label about the position key
// stream, it is independent from the encryption key derivation.
const placeLabel = "covertcomm.place.v1"

// headerLabel is the fixed seed source about the frame header positions.
// The header stores the salt, so the header placement can not depend on
// the password derived seed.
const headerLabel = "covertcomm.header.v1"

// headerSeed is used to generate the position key stream seed about the
// frame header.
func headerSeed() []byte {
	digest := sha256.Sum256([]byte(headerLabel))
	return digest[:]
}

// placement generates pseudo random embedding positions. The same seed,
// capacity, format and variant always generate the same sequence, and
// each position in [0, capacity) appears at most once.
//
// It is a sparse Fisher-Yates shuffle that only materializes the drawn
// prefix, the random source is the ChaCha20 key stream, so memory usage
// is proportional to the frame size, not to the carrier capacity.
type placement struct {
	capacity uint64
	stream   *chacha20.Cipher

	drawn     uint64
	displaced map[uint64]uint64
}

// newPlacement is used to create a position generator over a carrier
// with the given capacity. The capacity, format and variant are mixed
// to the nonce so each carrier type has an independent key stream.
func newPlacement(seed []byte, capacity uint64, format Format, variant Variant) (*placement, error) {
	if capacity < 1 {
		return nil, errors.New("empty carrier capacity")
	}
	hash := sha256.New()
	hash.Write([]byte(placeLabel))
	hash.Write(convert.BEUint64ToBytes(capacity))
	hash.Write(convert.BEUint32ToBytes(uint32(format)))
	hash.Write(convert.BEUint32ToBytes(uint32(variant)))
	digest := hash.Sum(nil)
	stream, err := chacha20.NewUnauthenticatedCipher(seed, digest[:chacha20.NonceSize])
	if err != nil {
		return nil, errors.Wrap(err, "failed to create position key stream")
	}
	pg := placement{
		capacity:  capacity,
		stream:    stream,
		displaced: make(map[uint64]uint64),
	}
	return &pg, nil
}

// next is used to draw the next embedding position. The caller must
// compare the frame size with the capacity before drawing.
func (pg *placement) next() uint64 {
	if pg.drawn >= pg.capacity {
		panic("stego: internal error")
	}
	i := pg.drawn
	j := i + pg.uint64n(pg.capacity-i)
	position := pg.lookup(j)
	if j != i {
		pg.displaced[j] = pg.lookup(i)
	}
	delete(pg.displaced, i)
	pg.drawn++
	return position
}

func (pg *placement) lookup(i uint64) uint64 {
	if v, ok := pg.displaced[i]; ok {
		return v
	}
	return i
}

// uint64n is used to read a uniform number in [0, n) from the key
// stream, it uses rejection sampling to avoid the modulo bias.
func (pg *placement) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 {
		return pg.uint64() & (n - 1)
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v := pg.uint64()
		if v < limit {
			return v % n
		}
	}
}

// uint64 is used to read the next eight key stream bytes as a big
// endian number.
func (pg *placement) uint64() uint64 {
	var zero [8]byte
	var b [8]byte
	pg.stream.XORKeyStream(b[:], zero[:])
	return convert.BEBytesToUint64(b[:])
}

// drawPositions is used to draw n positions, positions in the skip set
// are discarded. Each position appears at most once in the sequence, so
// the draw count is bounded by n plus the skip set size.
func drawPositions(pg *placement, n uint64, skip map[uint64]struct{}) []uint64 {
	positions := make([]uint64, 0, n)
	for uint64(len(positions)) < n {
		position := pg.next()
		if _, ok := skip[position]; ok {
			continue
		}
		positions = append(positions, position)
	}
	return positions
}
