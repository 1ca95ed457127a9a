package partitionoram

import (
	"encoding/binary"
	"fmt"
)

// Serialized block layout, little-endian:
//
//	[0:4)   block id (uint32)
//	[4]     block type
//	[5:17)  iv
//	[17:33) mac tag
//	[33:)   payload
//
// The layout is byte-exact for interoperability with any external reader of
// persisted buckets and is identical for normal and dummy blocks.

// MarshalBlock serializes a block into a fresh ORAMBlockSize byte slice.
func MarshalBlock(b *Block) []byte {
	out := make([]byte, ORAMBlockSize)
	binary.LittleEndian.PutUint32(out[0:4], b.Header.BlockID)
	out[4] = byte(b.Header.Type)
	copy(out[5:17], b.Header.IV[:])
	copy(out[17:33], b.Header.MacTag[:])
	copy(out[BlockHeaderSize:], b.Data[:])
	return out
}

// UnmarshalBlock deserializes data into b. A length mismatch indicates
// storage corruption or protocol desync and raises an unrecoverable Fault.
func UnmarshalBlock(data []byte, b *Block) {
	if len(data) != ORAMBlockSize {
		raise(FaultPrecondition, "unmarshal block",
			fmt.Errorf("expected %d bytes, got %d", ORAMBlockSize, len(data)))
	}
	b.Header.BlockID = binary.LittleEndian.Uint32(data[0:4])
	b.Header.Type = BlockType(data[4])
	copy(b.Header.IV[:], data[5:17])
	copy(b.Header.MacTag[:], data[17:33])
	copy(b.Data[:], data[BlockHeaderSize:])
}

// SerializeBucket converts a bucket to its wire form, one fixed-length byte
// string per block. This is the format consumed by the storage backends.
func SerializeBucket(bucket Bucket) [][]byte {
	out := make([][]byte, 0, len(bucket))
	for i := range bucket {
		out = append(out, MarshalBlock(&bucket[i]))
	}
	return out
}

// DeserializeBucket is the exact inverse of SerializeBucket. Any string
// whose length differs from the fixed block size raises an unrecoverable
// Fault via UnmarshalBlock.
func DeserializeBucket(data [][]byte) Bucket {
	bucket := make(Bucket, len(data))
	for i := range data {
		UnmarshalBlock(data[i], &bucket[i])
	}
	return bucket
}
