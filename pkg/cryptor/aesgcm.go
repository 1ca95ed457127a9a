package cryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// AESGCMCryptor implements Cryptor with AES-256-GCM.
type AESGCMCryptor struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cryptor with the given 32-byte key.
func NewAESGCM(key []byte) (*AESGCMCryptor, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCryptor{aead: aead}, nil
}

// New creates an AES-256-GCM cryptor with a fresh random key. The key is not
// recoverable from the returned instance, so this is only suitable for
// sessions whose state never outlives the process (and for tests).
func New() *AESGCMCryptor {
	key, err := RandomKey()
	if err != nil {
		panic("cryptor: random source failed: " + err.Error())
	}
	c, err := NewAESGCM(key)
	if err != nil {
		panic("cryptor: " + err.Error())
	}
	return c
}

// RandomBytes fills buf from crypto/rand.
func (c *AESGCMCryptor) RandomBytes(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	return nil
}

// Encrypt seals plaintext and returns ciphertext || tag.
func (c *AESGCMCryptor) Encrypt(plaintext, iv []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, ErrInvalidIVSize
	}
	return c.aead.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens ciphertext || tag and returns the plaintext.
func (c *AESGCMCryptor) Decrypt(ciphertext, iv []byte) ([]byte, error) {
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
