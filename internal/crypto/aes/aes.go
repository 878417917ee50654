package aes

import (
	"errors"
	"fmt"

	"covertcomm/internal/crypto/rand"
)

// about valid AES key size.
const (
	Key128Bit int = 16
	Key192Bit int = 24
	Key256Bit int = 32
)

// about AES-GCM information.
const (
	BlockSize int = 16
	NonceSize int = 12
	TagSize   int = 16
)

// errors about encrypt and decrypt.
var (
	ErrEmptyData         = errors.New("empty data")
	ErrInvalidCipherData = errors.New("invalid aes cipher data")
	ErrInvalidNonceSize  = errors.New("invalid aes-gcm nonce size")
	ErrAuthFailed        = errors.New("failed to authenticate cipher data")
)

// GenerateNonce is used to generate a random nonce for seal operation.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	_, err := rand.Read(nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %s", err)
	}
	return nonce, nil
}
