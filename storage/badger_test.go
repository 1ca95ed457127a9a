package storage

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Config{
		Path:   t.TempDir(),
		Logger: logger,
	}
}

func TestBadgerFlatStorage_ReadWrite(t *testing.T) {
	s, err := NewBadgerFlatStorage(0, 8, testBlockSize, testConfig(t))
	require.NoError(t, err)
	defer s.Close()

	data := randomBlock(t)
	require.NoError(t, s.WriteBlock(3, data))

	out, err := s.ReadBlock(3)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = s.ReadBlock(4)
	assert.ErrorIs(t, err, ErrEmptySlot)

	_, err = s.ReadBlock(8)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.ErrorIs(t, s.WriteBlock(0, data[:10]), ErrWrongBlockSize)
}

func TestBadgerFlatStorage_PersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t)

	s, err := NewBadgerFlatStorage(0, 4, testBlockSize, cfg)
	require.NoError(t, err)

	data := randomBlock(t)
	require.NoError(t, s.WriteBlock(1, data))
	require.NoError(t, s.Close())

	reopened, err := NewBadgerFlatStorage(0, 4, testBlockSize, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	out, err := reopened.ReadBlock(1)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestBadgerTreeStorage_ReadWrite(t *testing.T) {
	s, err := NewBadgerTreeStorage(0, testBlockSize, testConfig(t))
	require.NoError(t, err)
	defer s.Close()

	tag := BucketTag{Level: 2, Offset: 7}
	bucket := [][]byte{randomBlock(t), randomBlock(t), randomBlock(t)}
	require.NoError(t, s.WriteBucket(tag, bucket))

	out, err := s.ReadBucket(tag)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := range bucket {
		assert.True(t, bytes.Equal(out[i], bucket[i]), "block %d does not round-trip", i)
	}

	_, err = s.ReadBucket(BucketTag{Level: 9, Offset: 9})
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestBadgerTreeStorage_Tags(t *testing.T) {
	s, err := NewBadgerTreeStorage(0, testBlockSize, testConfig(t))
	require.NoError(t, err)
	defer s.Close()

	want := []BucketTag{{0, 0}, {1, 0}, {1, 1}, {2, 3}}
	for _, tag := range want {
		require.NoError(t, s.WriteBucket(tag, [][]byte{randomBlock(t)}))
	}

	tags, err := s.Tags()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, tags)
}

func TestBadgerTreeStorage_ShardedSurvivesShardLoss(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataShards = 3
	cfg.ParityShards = 2

	s, err := NewBadgerTreeStorage(0, testBlockSize, cfg)
	require.NoError(t, err)
	defer s.Close()

	tag := BucketTag{Level: 1, Offset: 4}
	bucket := [][]byte{randomBlock(t), randomBlock(t)}
	require.NoError(t, s.WriteBucket(tag, bucket))

	// Losing up to ParityShards shard records per block must not lose data.
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(blockKey(tag, 0, 1)); err != nil {
			return err
		}
		return txn.Delete(blockKey(tag, 0, 4))
	}))

	out, err := s.ReadBucket(tag)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, bucket[0], out[0])
	assert.Equal(t, bucket[1], out[1])
}

func TestBadgerTreeStorage_ShardedTooManyLost(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataShards = 2
	cfg.ParityShards = 1

	s, err := NewBadgerTreeStorage(0, testBlockSize, cfg)
	require.NoError(t, err)
	defer s.Close()

	tag := BucketTag{Level: 0, Offset: 0}
	require.NoError(t, s.WriteBucket(tag, [][]byte{randomBlock(t)}))

	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(blockKey(tag, 0, 0)); err != nil {
			return err
		}
		return txn.Delete(blockKey(tag, 0, 2))
	}))

	_, err = s.ReadBucket(tag)
	assert.Error(t, err, "reconstruction must fail with fewer than DataShards records")
}

func TestConfig_Validation(t *testing.T) {
	err := (&Config{}).checkConfig()
	assert.Error(t, err, "empty path must be rejected")

	cfg := &Config{Path: t.TempDir(), DataShards: 3}
	assert.Error(t, cfg.checkConfig(), "parity shards missing")

	cfg = &Config{Path: t.TempDir()}
	require.NoError(t, cfg.checkConfig())
	assert.NotNil(t, cfg.Logger, "checkConfig must default the logger")
}

func TestShardRecords_RoundTrip(t *testing.T) {
	data := randomBlock(t)

	records, err := encodeShardRecords(data, 4, 2)
	require.NoError(t, err)
	require.Len(t, records, 6)

	out, err := decodeShardRecords(records)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	// Any 4-of-6 subset reconstructs.
	out, err = decodeShardRecords([][]byte{records[0], records[2], records[4], records[5]})
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = decodeShardRecords(nil)
	assert.Error(t, err)
}

func TestShardRecords_InconsistentGeometry(t *testing.T) {
	a, err := encodeShardRecords(randomBlock(t), 2, 1)
	require.NoError(t, err)
	b, err := encodeShardRecords(randomBlock(t), 3, 1)
	require.NoError(t, err)

	_, err = decodeShardRecords([][]byte{a[0], b[1]})
	assert.Error(t, err)
}

func TestBadgerStorage_ErrDoesNotMaskNotFound(t *testing.T) {
	s, err := NewBadgerTreeStorage(0, testBlockSize, testConfig(t))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadBucket(BucketTag{Level: 3, Offset: 3})
	assert.True(t, errors.Is(err, ErrBucketNotFound))
}
