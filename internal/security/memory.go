package security

import (
	"reflect"
	"runtime"
	"sync"
	"unsafe"

	"covertcomm/internal/random"
)

var memory *Memory

func init() {
	memory = NewMemory()
	PaddingMemory()
	FlushMemory()
}

// Memory is used to fill the heap with random sized blocks, it makes
// the location of the secrets less predictable.
type Memory struct {
	rand   *random.Rand
	blocks [][]byte
	mu     sync.Mutex
}

// NewMemory is used to create Memory.
func NewMemory() *Memory {
	mem := Memory{
		rand: random.NewRand(),
	}
	mem.Padding()
	return &mem
}

// Padding is used to alloc random sized blocks.
func (m *Memory) Padding() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < 16; i++ {
		block := m.rand.Bytes(8 + m.rand.Intn(256))
		m.blocks = append(m.blocks, block)
	}
}

// Flush is used to release the padding blocks.
func (m *Memory) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = nil
}

// PaddingMemory is used to alloc memory.
func PaddingMemory() {
	memory.Padding()
}

// FlushMemory is used to flush global memory.
func FlushMemory() {
	memory.Flush()
}

// CoverBytes is used to cover byte slice if byte slice has secret.
func CoverBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// CoverString is used to cover string if string has secret.
// If it is a constant string, it will panic because write invalid memory.
// Don't cover string about map key, or maybe trigger data race.
func CoverString(s string) {
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s)) // #nosec
	var b []byte
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b)) // #nosec
	bh.Data, bh.Len, bh.Cap = sh.Data, sh.Len, sh.Len
	CoverBytes(b)
	runtime.KeepAlive(&s)
}

// Bytes is used to store a secret like an encryption key, the value is
// split with a random mask so the raw secret never lies in the memory
// as one piece. It is safe for use by multiple goroutines.
type Bytes struct {
	mask  []byte
	mixed []byte
	cache sync.Pool
}

// NewBytes is used to create a Bytes from the given slice, the slice
// is not retained and the caller can cover it after use.
func NewBytes(b []byte) *Bytes {
	l := len(b)
	bytes := Bytes{
		mask:  random.Bytes(l),
		mixed: make([]byte, l),
	}
	for i := 0; i < l; i++ {
		bytes.mixed[i] = b[i] ^ bytes.mask[i]
	}
	bytes.cache.New = func() interface{} {
		b := make([]byte, l)
		return &b
	}
	return &bytes
}

// Get is used to assemble the secret to a continuous slice, remember
// to call Put after use.
func (b *Bytes) Get() []byte {
	bytes := *b.cache.Get().(*[]byte)
	for i := 0; i < len(bytes); i++ {
		bytes[i] = b.mixed[i] ^ b.mask[i]
	}
	return bytes
}

// Put is used to cover the slice and put it back to the cache.
func (b *Bytes) Put(bytes []byte) {
	CoverBytes(bytes)
	b.cache.Put(&bytes)
}

// Len is used to get the secret length.
func (b *Bytes) Len() int {
	return len(b.mixed)
}
