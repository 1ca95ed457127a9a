// Package cryptor supplies the cryptographic provider consumed by the ORAM
// block codec: authenticated encryption, a cryptographically secure random
// source, and uniform shuffling. Providers are injected into the codec and
// utility layer; nothing in this package knows about block semantics.
package cryptor

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// KeySize is the symmetric key size in bytes (256-bit keys throughout).
	KeySize = 32
	// IVSize is the AEAD nonce size in bytes.
	IVSize = 12
	// TagSize is the AEAD authentication tag size in bytes.
	TagSize = 16
)

var (
	ErrInvalidKeySize = errors.New("cryptor: key must be 32 bytes")
	ErrInvalidIVSize  = errors.New("cryptor: iv must be 12 bytes")
	ErrCiphertextSize = errors.New("cryptor: ciphertext shorter than tag")
	ErrAuthentication = errors.New("cryptor: message authentication failed")
)

// Cryptor is the provider contract consumed by the block codec and the
// bucket/stash utilities. Encrypt returns ciphertext with the authentication
// tag appended as its trailing TagSize bytes; Decrypt expects the same
// layout. A Cryptor instance is not safe for concurrent use by multiple
// goroutines without external synchronization.
type Cryptor interface {
	// RandomBytes fills buf with cryptographically secure random bytes.
	RandomBytes(buf []byte) error

	// Encrypt seals plaintext under the given 12-byte iv and returns
	// ciphertext || tag.
	Encrypt(plaintext, iv []byte) ([]byte, error)

	// Decrypt opens ciphertext || tag under the given 12-byte iv and
	// returns the plaintext. It fails if the tag does not verify.
	Decrypt(ciphertext, iv []byte) ([]byte, error)
}

// RandomKey returns a fresh random 32-byte key.
func RandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}
	return key, nil
}

// UniformInt returns a uniformly distributed integer in [0, n).
func UniformInt(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("uniform bound must be positive, got %d", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random integer: %w", err)
	}
	return int(v.Int64()), nil
}

// RandomShuffle permutes s in place with a uniform Fisher-Yates shuffle
// driven by crypto/rand. After a successful shuffle the position of an
// element carries no information about its original index.
func RandomShuffle[T any](s []T) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := UniformInt(i + 1)
		if err != nil {
			return err
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}
