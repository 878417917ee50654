package aes

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"covertcomm/internal/patch/monkey"
)

var (
	test128BitKey = []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 11, 12, 13, 14, 15, 16}
	test192BitKey = append(test128BitKey, []byte{17, 18, 19, 20, 21, 22, 23, 24}...)
	test256BitKey = bytes.Repeat(test128BitKey, 2)
)

func generateBytes() []byte {
	testdata := make([]byte, 63)
	for i := 0; i < 63; i++ {
		testdata[i] = byte(i)
	}
	return testdata
}

func TestGenerateNonce(t *testing.T) {
	t.Run("common", func(t *testing.T) {
		nonce1, err := GenerateNonce()
		require.NoError(t, err)
		require.Len(t, nonce1, NonceSize)

		nonce2, err := GenerateNonce()
		require.NoError(t, err)

		require.NotEqual(t, nonce1, nonce2)
	})

	t.Run("failed to read", func(t *testing.T) {
		patch := func(io.Reader, []byte) (int, error) {
			return 0, monkey.Error
		}
		pg := monkey.Patch(io.ReadFull, patch)
		defer pg.Unpatch()

		nonce, err := GenerateNonce()
		monkey.IsExistMonkeyError(t, err)
		require.Nil(t, nonce)
	})
}
