package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Shard record layout, little-endian:
//
//	[0]     shard index (data shards precede parity shards)
//	[1]     data shard count
//	[2]     parity shard count
//	[3:7)   original byte length before Reed-Solomon padding (uint32)
//	[7:)    shard payload
//
// Records are self-describing so a bucket remains reconstructible from any
// dataShards-sized subset of its shard records.
const shardHeaderSize = 7

// encodeShardRecords splits data into dataShards+parityShards self-describing
// shard records.
func encodeShardRecords(data []byte, dataShards, parityShards uint8) ([][]byte, error) {
	enc, err := reedsolomon.New(int(dataShards), int(parityShards))
	if err != nil {
		return nil, fmt.Errorf("failed to create Reed-Solomon encoder: %w", err)
	}

	shards, err := enc.Split(data)
	if err != nil {
		return nil, fmt.Errorf("failed to split data into shards: %w", err)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("failed to encode parity shards: %w", err)
	}

	records := make([][]byte, 0, len(shards))
	for i, shard := range shards {
		record := make([]byte, shardHeaderSize+len(shard))
		record[0] = uint8(i)
		record[1] = dataShards
		record[2] = parityShards
		binary.LittleEndian.PutUint32(record[3:7], uint32(len(data)))
		copy(record[shardHeaderSize:], shard)
		records = append(records, record)
	}
	return records, nil
}

// decodeShardRecords reassembles the original data from any sufficient
// subset of shard records, reconstructing missing shards from parity.
func decodeShardRecords(records [][]byte) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no shard records provided")
	}

	var (
		dataShards, parityShards uint8
		originalSize             uint32
		seen                     bool
	)

	var shards [][]byte
	for _, record := range records {
		if len(record) <= shardHeaderSize {
			return nil, fmt.Errorf("shard record too short: %d bytes", len(record))
		}
		idx := record[0]
		if !seen {
			dataShards = record[1]
			parityShards = record[2]
			originalSize = binary.LittleEndian.Uint32(record[3:7])
			shards = make([][]byte, int(dataShards)+int(parityShards))
			seen = true
		} else if record[1] != dataShards || record[2] != parityShards {
			return nil, fmt.Errorf("inconsistent shard geometry: %d+%d vs %d+%d",
				record[1], record[2], dataShards, parityShards)
		}
		if int(idx) >= len(shards) {
			return nil, fmt.Errorf("shard index %d out of range", idx)
		}
		shards[idx] = record[shardHeaderSize:]
	}

	enc, err := reedsolomon.New(int(dataShards), int(parityShards))
	if err != nil {
		return nil, fmt.Errorf("failed to create Reed-Solomon decoder: %w", err)
	}

	if err := enc.Reconstruct(shards); err != nil {
		return nil, fmt.Errorf("failed to reconstruct missing shards: %w", err)
	}

	var out bytes.Buffer
	if err := enc.Join(&out, shards, int(originalSize)); err != nil {
		return nil, fmt.Errorf("failed to join shards: %w", err)
	}
	return out.Bytes(), nil
}
