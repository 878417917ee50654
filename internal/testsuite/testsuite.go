package testsuite

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Bytes is used to generate test data: bytes[0, 255].
func Bytes() []byte {
	testdata := make([]byte, 256)
	for i := 0; i < 256; i++ {
		testdata[i] = byte(i)
	}
	return testdata
}

// Destroyed is used to check if the object has been recycled by the GC.
// It is not a precise check, the finalizer may be delayed.
func Destroyed(object interface{}) bool {
	destroyed := make(chan struct{})
	runtime.SetFinalizer(object, func(interface{}) {
		close(destroyed)
	})
	// total 3 seconds
	timer := time.NewTimer(10 * time.Millisecond)
	defer timer.Stop()
	for i := 0; i < 300; i++ {
		timer.Reset(10 * time.Millisecond)
		runtime.GC()
		select {
		case <-destroyed:
			return true
		case <-timer.C:
		}
	}
	return false
}

// IsDestroyed is used to check if the object has been recycled by the GC.
func IsDestroyed(t testing.TB, object interface{}) {
	require.True(t, Destroyed(object), "object is not destroyed")
}

// DeferForPanic is used to add recover to a function, it log the panic value.
func DeferForPanic(t testing.TB) {
	r := recover()
	require.NotNil(t, r, "no panic occurred")
	t.Logf("\npanic in %s:\n%s\n", t.Name(), r)
}
