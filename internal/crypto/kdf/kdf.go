package kdf

import (
	"crypto/sha256"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"covertcomm/internal/convert"
	"covertcomm/internal/crypto/aes"
	"covertcomm/internal/crypto/rand"
)

// about derivation parameters.
const (
	// Iterations is the PBKDF2-SHA256 iteration count.
	Iterations = 8192

	// SaltSize is the byte length of the random salt for the encryption key.
	SaltSize = 16

	// SeedSize is the byte length of the derived placement seed.
	SeedSize = 32
)

// context labels keep the encryption key and the placement seed
// independent although both are derived from the same password and
// salt.
const (
	labelKey  = "covertcomm.key.v1"
	labelSeed = "covertcomm.seed.v1"
)

// errors about derive.
var (
	ErrEmptyPassword   = errors.New("empty password")
	ErrInvalidSaltSize = errors.New("invalid salt size")
)

// DeriveKey is used to derive an AES-256 key from password and salt.
func DeriveKey(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) != SaltSize {
		return nil, ErrInvalidSaltSize
	}
	s := convert.MergeBytes([]byte(labelKey), salt)
	return pbkdf2.Key(password, s, Iterations, aes.Key256Bit, sha256.New), nil
}

// DeriveSeed is used to derive the placement seed from password and
// salt.
func DeriveSeed(password, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) != SaltSize {
		return nil, ErrInvalidSaltSize
	}
	s := convert.MergeBytes([]byte(labelSeed), salt)
	return pbkdf2.Key(password, s, Iterations, SeedSize, sha256.New), nil
}

// GenerateSalt is used to generate a random salt for DeriveKey.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}
	return salt, nil
}
