package storage

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerTreeStorage is a persistent tree layout backed by BadgerDB. Each
// bucket is stored as a metadata record holding its block count plus one
// record per block; with Reed-Solomon coding enabled, each block is instead
// stored as dataShards+parityShards shard records and survives the loss of
// up to parityShards of them.
type BadgerTreeStorage struct {
	id           uint32
	blockSize    uint64
	dataShards   uint8
	parityShards uint8
	db           *badger.DB
	log          *logrus.Logger
}

var _ TreeStorage = (*BadgerTreeStorage)(nil)

// NewBadgerTreeStorage opens persistent tree storage. blockSize records the
// uncompressed serialized block size for introspection.
func NewBadgerTreeStorage(id uint32, blockSize uint64, config *Config) (*BadgerTreeStorage, error) {
	if err := config.checkConfig(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	db, err := openBadger(config)
	if err != nil {
		return nil, err
	}
	return &BadgerTreeStorage{
		id:           id,
		blockSize:    blockSize,
		dataShards:   config.DataShards,
		parityShards: config.ParityShards,
		db:           db,
		log:          config.Logger,
	}, nil
}

func (s *BadgerTreeStorage) ID() uint32        { return s.id }
func (s *BadgerTreeStorage) BlockSize() uint64 { return s.blockSize }
func (s *BadgerTreeStorage) Layout() Layout    { return TreeLayout }

func (s *BadgerTreeStorage) sharded() bool {
	return s.dataShards > 0
}

// WriteBucket stores a serialized bucket at tag, replacing any previous
// contents.
func (s *BadgerTreeStorage) WriteBucket(tag BucketTag, bucket [][]byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		meta := make([]byte, 4)
		binary.LittleEndian.PutUint32(meta, uint32(len(bucket)))
		if err := txn.Set(bucketKey(tag), meta); err != nil {
			return fmt.Errorf("failed to store bucket metadata: %w", err)
		}

		for slot, block := range bucket {
			if !s.sharded() {
				if err := txn.Set(blockKey(tag, slot, 0), block); err != nil {
					return fmt.Errorf("failed to store block %d: %w", slot, err)
				}
				continue
			}

			records, err := encodeShardRecords(block, s.dataShards, s.parityShards)
			if err != nil {
				return fmt.Errorf("failed to shard block %d: %w", slot, err)
			}
			for i, record := range records {
				if err := txn.Set(blockKey(tag, slot, i), record); err != nil {
					return fmt.Errorf("failed to store shard %d of block %d: %w", i, slot, err)
				}
			}
		}
		return nil
	})
}

// ReadBucket returns the serialized bucket stored at tag. Sharded blocks
// are reconstructed from whatever shard records survive.
func (s *BadgerTreeStorage) ReadBucket(tag BucketTag) ([][]byte, error) {
	var bucket [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bucketKey(tag))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrBucketNotFound
			}
			return fmt.Errorf("failed to read bucket metadata: %w", err)
		}
		meta, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if len(meta) != 4 {
			return fmt.Errorf("malformed bucket metadata at level %d offset %d", tag.Level, tag.Offset)
		}
		count := int(binary.LittleEndian.Uint32(meta))

		bucket = make([][]byte, 0, count)
		for slot := 0; slot < count; slot++ {
			block, err := s.readBlock(txn, tag, slot)
			if err != nil {
				return err
			}
			bucket = append(bucket, block)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func (s *BadgerTreeStorage) readBlock(txn *badger.Txn, tag BucketTag, slot int) ([]byte, error) {
	if !s.sharded() {
		item, err := txn.Get(blockKey(tag, slot, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to read block %d: %w", slot, err)
		}
		return item.ValueCopy(nil)
	}

	total := int(s.dataShards) + int(s.parityShards)
	records := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		item, err := txn.Get(blockKey(tag, slot, i))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				continue // reconstructible from the remaining shards
			}
			return nil, fmt.Errorf("failed to read shard %d of block %d: %w", i, slot, err)
		}
		record, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	block, err := decodeShardRecords(records)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct block %d: %w", slot, err)
	}
	return block, nil
}

// Tags returns the tags of all stored buckets in unspecified order.
func (s *BadgerTreeStorage) Tags() ([]BucketTag, error) {
	var tags []BucketTag
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(bucketPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			tag, err := parseBucketKey(string(it.Item().Key()))
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Close releases the underlying Badger database.
func (s *BadgerTreeStorage) Close() error {
	return s.db.Close()
}

func bucketKey(tag BucketTag) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", bucketPrefix, tag.Level, tag.Offset))
}

func blockKey(tag BucketTag, slot, shard int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d:%d:%d", shardPrefix, tag.Level, tag.Offset, slot, shard))
}

func parseBucketKey(key string) (BucketTag, error) {
	var tag BucketTag
	trimmed := strings.TrimPrefix(key, bucketPrefix)
	if _, err := fmt.Sscanf(trimmed, "%d:%d", &tag.Level, &tag.Offset); err != nil {
		return BucketTag{}, fmt.Errorf("malformed bucket key %q: %w", key, err)
	}
	return tag, nil
}
