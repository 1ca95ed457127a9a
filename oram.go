// Package partitionoram implements the server-side block codec and
// oblivious-storage utility layer of a Partition / Square-root ORAM
// protocol: authenticated block encryption, at-rest compression, stash
// padding, cryptographically shuffled bucket sampling, and the fixed
// bucket wire format consumed by the storage backends.
//
// Higher-level ORAM tree and partition logic decides which buckets to touch;
// this package only guarantees that every block it produces is the same
// size and shape regardless of whether it carries real data.
package partitionoram

// Block geometry. The serialized layout is fixed so that every block, real
// or dummy, occupies exactly ORAMBlockSize bytes on the wire.
const (
	// DefaultORAMDataSize is the payload size of a single block in bytes.
	DefaultORAMDataSize = 512

	// IVSize is the per-block AEAD nonce size.
	IVSize = 12

	// MacSize is the per-block AEAD authentication tag size.
	MacSize = 16

	// BlockHeaderSize is the serialized header size: id, type, iv, mac tag.
	BlockHeaderSize = 4 + 1 + IVSize + MacSize

	// ORAMBlockSize is the total serialized block size.
	ORAMBlockSize = BlockHeaderSize + DefaultORAMDataSize
)

// BlockType distinguishes real blocks from dummy filler.
type BlockType uint8

const (
	// BlockNormal marks a block carrying user payload.
	BlockNormal BlockType = iota
	// BlockDummy marks a block carrying random filler.
	BlockDummy
)

func (t BlockType) String() string {
	switch t {
	case BlockNormal:
		return "normal"
	case BlockDummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// BlockHeader holds the per-block metadata that travels with the payload.
// The header is never encrypted; only Data of normal blocks passes through
// the cipher.
type BlockHeader struct {
	BlockID uint32
	Type    BlockType
	IV      [IVSize]byte
	MacTag  [MacSize]byte
}

// Block is the atomic unit of oblivious storage. For normal blocks Data
// holds user payload (ciphertext once encrypted); for dummy blocks it holds
// cryptographically random filler.
type Block struct {
	Header BlockHeader
	Data   [DefaultORAMDataSize]byte
}

// Bucket is an ordered sequence of blocks filling one physical storage
// slot. After sampling, block order within a bucket carries no information;
// callers must treat a bucket as a set.
type Bucket []Block

// Stash is the client-held sequence of blocks in flight between tree
// levels. It must be padded to full bucket size before being written back
// so its occupancy never leaks the real-block count.
type Stash []Block
