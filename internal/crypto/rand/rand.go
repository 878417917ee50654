package rand

import (
	cr "crypto/rand"
	"io"
	"math/rand"
	"sync"
	"time"

	"covertcomm/internal/random"
)

// Reader is a global, shared instance of a cryptographically secure
// random number generator, the system entropy is mixed with a second
// generator before it leaves this package.
var Reader io.Reader = reader{}

var pool sync.Pool

func init() {
	seeder := random.NewRand()
	pool.New = func() interface{} {
		seed := seeder.Int63() + time.Now().Unix() + time.Now().UnixNano()
		return rand.New(rand.NewSource(seed)) // #nosec
	}
}

type reader struct{}

func (reader) Read(b []byte) (int, error) {
	l := len(b)
	if l == 0 {
		return 0, nil
	}
	_, err := io.ReadFull(cr.Reader, b)
	if err != nil {
		return 0, err
	}
	// swap bytes and add values from a second generator
	rd := pool.Get().(*rand.Rand)
	defer pool.Put(rd)
	offset := rd.Intn(l)
	for i := 0; i < l; i++ {
		b[i] += byte(rd.Intn(256) + offset)
		j := (i + offset) % l
		b[i], b[j] = b[j], b[i]
	}
	return l, nil
}

// Read is a helper function that calls Reader.Read using io.ReadFull.
// On return, n == len(b) if and only if err == nil.
func Read(b []byte) (n int, err error) {
	return io.ReadFull(Reader, b)
}
