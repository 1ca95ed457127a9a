package partitionoram

import (
	"github.com/hiroki-chen/PartitionORAM/pkg/cryptor"
)

// SampleRandomBucket builds a freshly randomized bucket of treeSize blocks
// for a newly materialized tree node. The first size/2 blocks are normal
// with block ids initialOffset, initialOffset+1, ... and the first payload
// byte set to the id (so tests can track blocks through the pipeline); the
// rest are dummy blocks with fully randomized payload. The bucket is then
// shuffled with a uniform permutation so position carries no information
// about type.
//
// Randomness failure raises an unrecoverable Fault.
func SampleRandomBucket(size, treeSize, initialOffset uint32, c cryptor.Cryptor) Bucket {
	normal := size / 2
	bucket := make(Bucket, 0, treeSize)

	for i := uint32(0); i < treeSize; i++ {
		var b Block
		b.Header.BlockID = i + initialOffset

		if i < normal {
			b.Header.Type = BlockNormal
			b.Data[0] = byte(i + initialOffset)
			if err := c.RandomBytes(b.Data[1:]); err != nil {
				raise(FaultRandomness, "randomize sampled block payload", err)
			}
		} else {
			b.Header.Type = BlockDummy
			if err := c.RandomBytes(b.Data[:]); err != nil {
				raise(FaultRandomness, "randomize dummy block payload", err)
			}
		}

		bucket = append(bucket, b)
	}

	if err := cryptor.RandomShuffle(bucket); err != nil {
		raise(FaultRandomness, "shuffle sampled bucket", err)
	}

	return bucket
}

// PadStash appends freshly randomized dummy blocks until the stash holds
// bucketSize blocks, so that stash occupancy never leaks the real-block
// count. The padding blocks are random over their full serialized form, not
// just the payload, with only the type forced to dummy. An already-full
// stash is returned unchanged; truncating an over-full stash is a caller
// invariant violation and is not handled here.
//
// Randomness failure raises an unrecoverable Fault.
func PadStash(stash Stash, bucketSize int, c cryptor.Cryptor) Stash {
	for i := len(stash); i < bucketSize; i++ {
		raw := make([]byte, ORAMBlockSize)
		if err := c.RandomBytes(raw); err != nil {
			raise(FaultRandomness, "randomize stash padding block", err)
		}

		var dummy Block
		UnmarshalBlock(raw, &dummy)
		dummy.Header.Type = BlockDummy

		stash = append(stash, dummy)
	}
	return stash
}
