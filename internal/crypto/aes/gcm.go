package aes

import (
	"crypto/aes"
	"crypto/cipher"

	"covertcomm/internal/security"
)

// GCMEncrypt is used to encrypt plain data with Galois counter mode, the
// additional data is only authenticated. Output is [nonce + cipher data + tag].
func GCMEncrypt(data, key, additional []byte) ([]byte, error) {
	l := len(data)
	if l == 0 {
		return nil, ErrEmptyData
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	output := make([]byte, NonceSize, NonceSize+l+TagSize)
	copy(output, nonce)
	return aead.Seal(output, nonce, data, additional), nil
}

// GCMDecrypt is used to decrypt cipher data with Galois counter mode, the
// additional data must be the same as seal. Input data is [nonce + cipher data + tag].
func GCMDecrypt(data, key, additional []byte) ([]byte, error) {
	l := len(data)
	if l == 0 {
		return nil, ErrEmptyData
	}
	if l < NonceSize+TagSize+1 {
		return nil, ErrInvalidCipherData
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	output, err := aead.Open(nil, data[:NonceSize], data[NonceSize:], additional)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return output, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// GCM is the AES encrypter with Galois counter mode.
type GCM struct {
	key  *security.Bytes
	aead cipher.AEAD
}

// NewGCM is used to create a AES encrypter with Galois counter mode.
func NewGCM(key []byte) (*GCM, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	gcm := GCM{
		key:  security.NewBytes(key),
		aead: aead,
	}
	return &gcm, nil
}

// Encrypt is used to encrypt plain data with a random nonce.
// Output is [nonce + cipher data + tag].
func (gcm *GCM) Encrypt(data, additional []byte) ([]byte, error) {
	l := len(data)
	if l == 0 {
		return nil, ErrEmptyData
	}
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	output := make([]byte, NonceSize, NonceSize+l+TagSize)
	copy(output, nonce)
	return gcm.aead.Seal(output, nonce, data, additional), nil
}

// EncryptWithNonce is used to encrypt plain data with the given nonce.
// Output is [cipher data + tag].
func (gcm *GCM) EncryptWithNonce(data, nonce, additional []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonceSize
	}
	return gcm.aead.Seal(nil, nonce, data, additional), nil
}

// Decrypt is used to decrypt cipher data. Input data is [nonce + cipher data + tag].
func (gcm *GCM) Decrypt(data, additional []byte) ([]byte, error) {
	l := len(data)
	if l == 0 {
		return nil, ErrEmptyData
	}
	if l < NonceSize+TagSize+1 {
		return nil, ErrInvalidCipherData
	}
	output, err := gcm.aead.Open(nil, data[:NonceSize], data[NonceSize:], additional)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return output, nil
}

// DecryptWithNonce is used to decrypt cipher data with the given nonce.
// Input data is [cipher data + tag].
func (gcm *GCM) DecryptWithNonce(data, nonce, additional []byte) ([]byte, error) {
	if len(data) < TagSize+1 {
		return nil, ErrInvalidCipherData
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonceSize
	}
	output, err := gcm.aead.Open(nil, nonce, data, additional)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return output, nil
}

// Key is used to get AES Key.
func (gcm *GCM) Key() []byte {
	key := gcm.key.Get()
	defer gcm.key.Put(key)
	// copy it, usually cover it after use.
	cp := make([]byte, len(key))
	copy(cp, key)
	return cp
}
