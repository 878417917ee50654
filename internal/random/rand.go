package random

import (
	cr "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// Rand is a math/rand generator with a hardened seed, it is safe for
// use by multiple goroutines.
type Rand struct {
	src *rand.Rand
	mu  sync.Mutex
}

// NewRand is used to create a new Rand, this function is slow. The
// seed mixes the system entropy with scheduler timing, so generators
// created in the same nanosecond still diverge.
func NewRand() *Rand {
	const (
		goroutines = 4
		samplesPer = 32
	)
	samples := make(chan uint64, goroutines*samplesPer)
	wg := sync.WaitGroup{}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < samplesPer; j++ {
				sample := uint64(time.Now().UnixNano())
				sample += uint64(id)<<56 + uint64(j)<<48
				select {
				case samples <- sample:
				default:
					return
				}
				// let the other samplers interleave
				runtime.Gosched()
			}
		}(i)
	}
	wg.Wait()
	close(samples)
	hash := sha256.New()
	buf := make([]byte, 8)
	for sample := range samples {
		binary.BigEndian.PutUint64(buf, sample)
		hash.Write(buf)
	}
	_, _ = io.CopyN(hash, cr.Reader, 256)
	digest := hash.Sum(nil)
	seed := int64(binary.BigEndian.Uint64(digest[:8]))
	seed ^= time.Now().UnixNano()
	return &Rand{src: rand.New(rand.NewSource(seed))} // #nosec
}

// Bytes is used to generate a random byte slice that size = n.
func (r *Rand) Bytes(n int) []byte {
	if n < 1 {
		return nil
	}
	b := make([]byte, n)
	r.mu.Lock()
	_, _ = r.src.Read(b)
	r.mu.Unlock()
	return b
}

// charset is used by String, it only contains number and letter characters.
const charset = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz"

// String returns a string that only include 0-9, A-Z and a-z.
func (r *Rand) String(n int) string {
	if n < 1 {
		return ""
	}
	b := make([]byte, n)
	r.mu.Lock()
	for i := range b {
		b[i] = charset[r.src.Intn(len(charset))]
	}
	r.mu.Unlock()
	return string(b)
}

// Bool returns a pseudo-random bool in [false, true].
func (r *Rand) Bool() bool {
	return r.Int63()&1 == 1
}

// Intn returns, as an int, a non-negative pseudo-random number in [0, n).
func (r *Rand) Intn(n int) int {
	if n < 1 {
		return 0
	}
	r.mu.Lock()
	v := r.src.Intn(n)
	r.mu.Unlock()
	return v
}

// Int63n returns, as an int64, a non-negative pseudo-random number in [0, n).
func (r *Rand) Int63n(n int64) int64 {
	if n < 1 {
		return 0
	}
	r.mu.Lock()
	v := r.src.Int63n(n)
	r.mu.Unlock()
	return v
}

// Int63 returns a non-negative pseudo-random 63-bit integer as an int64.
func (r *Rand) Int63() int64 {
	r.mu.Lock()
	v := r.src.Int63()
	r.mu.Unlock()
	return v
}

// Uint64 returns a pseudo-random 64-bit value as a uint64.
func (r *Rand) Uint64() uint64 {
	r.mu.Lock()
	v := r.src.Uint64()
	r.mu.Unlock()
	return v
}

// Perm returns, as a slice of n int, a pseudo-random permutation of
// the integers [0, n).
func (r *Rand) Perm(n int) []int {
	if n < 1 {
		return nil
	}
	r.mu.Lock()
	v := r.src.Perm(n)
	r.mu.Unlock()
	return v
}

var global = NewRand()

// Bytes is used to generate a random byte slice that size = n.
func Bytes(n int) []byte {
	return global.Bytes(n)
}

// String returns a string that only include 0-9, A-Z and a-z.
func String(n int) string {
	return global.String(n)
}

// Bool returns a pseudo-random bool in [false, true].
func Bool() bool {
	return global.Bool()
}

// Intn returns, as an int, a non-negative pseudo-random number in [0, n).
func Intn(n int) int {
	return global.Intn(n)
}

// Int63n returns, as an int64, a non-negative pseudo-random number in [0, n).
func Int63n(n int64) int64 {
	return global.Int63n(n)
}

// Int63 returns a non-negative pseudo-random 63-bit integer as an int64.
func Int63() int64 {
	return global.Int63()
}

// Uint64 returns a pseudo-random 64-bit value as a uint64.
func Uint64() uint64 {
	return global.Uint64()
}

// Perm returns, as a slice of n int, a pseudo-random permutation of
// the integers [0, n).
func Perm(n int) []int {
	return global.Perm(n)
}
