package cryptor

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Cryptor implements Cryptor with ChaCha20-Poly1305. Its nonce and
// tag sizes match AES-GCM, so the two providers produce interchangeable
// block layouts.
type ChaCha20Cryptor struct {
	aead cipher.AEAD
}

// NewChaCha20 creates a ChaCha20-Poly1305 cryptor with the given 32-byte key.
func NewChaCha20(key []byte) (*ChaCha20Cryptor, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305: %w", err)
	}

	return &ChaCha20Cryptor{aead: aead}, nil
}

// RandomBytes fills buf from crypto/rand.
func (c *ChaCha20Cryptor) RandomBytes(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	return nil
}

// Encrypt seals plaintext and returns ciphertext || tag.
func (c *ChaCha20Cryptor) Encrypt(plaintext, iv []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, ErrInvalidIVSize
	}
	return c.aead.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens ciphertext || tag and returns the plaintext.
func (c *ChaCha20Cryptor) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, ErrInvalidIVSize
	}
	if len(ciphertext) < TagSize {
		return nil, ErrCiphertextSize
	}
	plaintext, err := c.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
