package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/hiroki-chen/PartitionORAM/pkg/diskinfo"
)

const (
	// Key prefixes for the record classes in BadgerDB.
	blockPrefix  = "block:"  // flat layout slots
	bucketPrefix = "bucket:" // tree layout bucket metadata
	shardPrefix  = "shard:"  // tree layout block shards
)

// Config configures a Badger-backed storage instance.
type Config struct {
	// Path is the Badger data directory.
	Path string
	// MinimumFreeSpace is the free space in GiB required on the backing
	// filesystem before the store opens. Zero disables the check.
	MinimumFreeSpace int
	// Logger receives storage diagnostics. Defaults to a fresh logrus
	// logger when nil.
	Logger *logrus.Logger
	// DataShards and ParityShards enable Reed-Solomon coding of tree
	// bucket blocks at rest. Both zero disables coding; a bucket survives
	// the loss of up to ParityShards shard records per block.
	DataShards   uint8
	ParityShards uint8
}

func (c *Config) checkConfig() error {
	if c.Path == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if (c.DataShards == 0) != (c.ParityShards == 0) {
		return fmt.Errorf("data and parity shard counts must both be set or both be zero")
	}
	if c.MinimumFreeSpace > 0 {
		ok, err := diskinfo.HasMinimumFreeSpace(c.Path, c.MinimumFreeSpace)
		if err != nil {
			return fmt.Errorf("failed to check free space: %w", err)
		}
		if !ok {
			return fmt.Errorf("less than %d GiB free at %s", c.MinimumFreeSpace, c.Path)
		}
	}
	return nil
}

func openBadger(config *Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.ValueLogFileSize = 1024 * 1024 * 100 // 100MB value log files
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", config.Path, err)
	}

	if err := diskinfo.LogUsage(config.Logger, config.Path); err != nil {
		config.Logger.WithError(err).Warn("Failed to report disk usage")
	}

	return db, nil
}

// BadgerFlatStorage is a persistent flat layout backed by BadgerDB.
type BadgerFlatStorage struct {
	id        uint32
	capacity  uint64
	blockSize uint64
	db        *badger.DB
	log       *logrus.Logger
}

var _ FlatStorage = (*BadgerFlatStorage)(nil)

// NewBadgerFlatStorage opens persistent flat storage with the given slot
// count and block size.
func NewBadgerFlatStorage(id uint32, capacity, blockSize uint64, config *Config) (*BadgerFlatStorage, error) {
	if err := config.checkConfig(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	db, err := openBadger(config)
	if err != nil {
		return nil, err
	}
	return &BadgerFlatStorage{
		id:        id,
		capacity:  capacity,
		blockSize: blockSize,
		db:        db,
		log:       config.Logger,
	}, nil
}

func (s *BadgerFlatStorage) ID() uint32        { return s.id }
func (s *BadgerFlatStorage) BlockSize() uint64 { return s.blockSize }
func (s *BadgerFlatStorage) Layout() Layout    { return FlatLayout }
func (s *BadgerFlatStorage) Capacity() uint64  { return s.capacity }

// InRange reports whether pos addresses a valid slot.
func (s *BadgerFlatStorage) InRange(pos uint32) bool {
	return uint64(pos) < s.capacity
}

// ReadBlock returns the bytes stored at pos.
func (s *BadgerFlatStorage) ReadBlock(pos uint32) ([]byte, error) {
	if !s.InRange(pos) {
		return nil, ErrOutOfRange
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(flatKey(pos))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrEmptySlot
			}
			return fmt.Errorf("failed to read slot %d: %w", pos, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteBlock stores data at pos.
func (s *BadgerFlatStorage) WriteBlock(pos uint32, data []byte) error {
	if !s.InRange(pos) {
		return ErrOutOfRange
	}
	if uint64(len(data)) != s.blockSize {
		return ErrWrongBlockSize
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(flatKey(pos), data)
	})
}

// Close releases the underlying Badger database.
func (s *BadgerFlatStorage) Close() error {
	return s.db.Close()
}

func flatKey(pos uint32) []byte {
	return []byte(fmt.Sprintf("%s%d", blockPrefix, pos))
}
