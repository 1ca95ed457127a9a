package partitionoram

import (
	"github.com/hiroki-chen/PartitionORAM/pkg/cryptor"
)

// EncryptBlock encrypts a block's payload in place using the injected
// provider. Dummy blocks are left untouched; their content is discarded
// noise, not secret-protected data. For normal blocks a fresh IV is drawn
// into the header, the payload is sealed, and the trailing 16 bytes of the
// AEAD output populate the header's mac tag while the remaining bytes
// overwrite the payload. The block size never changes.
//
// Randomness or encryption failure raises an unrecoverable Fault.
func EncryptBlock(block *Block, c cryptor.Cryptor) {
	if block.Header.Type != BlockNormal {
		return
	}

	if err := c.RandomBytes(block.Header.IV[:]); err != nil {
		raise(FaultRandomness, "generate block iv", err)
	}

	sealed, err := c.Encrypt(block.Data[:], block.Header.IV[:])
	if err != nil {
		raise(FaultCrypto, "encrypt block payload", err)
	}
	if len(sealed) != DefaultORAMDataSize+MacSize {
		raise(FaultCrypto, "encrypt block payload: unexpected ciphertext length", nil)
	}

	copy(block.Header.MacTag[:], sealed[DefaultORAMDataSize:])
	copy(block.Data[:], sealed[:DefaultORAMDataSize])
}

// DecryptBlock reverses EncryptBlock in place. Dummy blocks are left
// untouched. For normal blocks the AEAD input is reconstructed as
// payload || mac tag and opened under the header's IV; on success the
// recovered plaintext overwrites the payload.
//
// Authentication failure raises an unrecoverable Fault: tampered or
// corrupted ciphertext must never decay into silently-wrong plaintext.
func DecryptBlock(block *Block, c cryptor.Cryptor) {
	if block.Header.Type != BlockNormal {
		return
	}

	sealed := make([]byte, 0, DefaultORAMDataSize+MacSize)
	sealed = append(sealed, block.Data[:]...)
	sealed = append(sealed, block.Header.MacTag[:]...)

	plaintext, err := c.Decrypt(sealed, block.Header.IV[:])
	if err != nil {
		raise(FaultCrypto, "decrypt block payload", err)
	}
	if len(plaintext) != DefaultORAMDataSize {
		raise(FaultCrypto, "decrypt block payload: unexpected plaintext length", nil)
	}

	copy(block.Data[:], plaintext)
}
