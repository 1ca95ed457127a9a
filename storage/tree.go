package storage

// MemoryTreeStorage is the in-memory tagged layout of partition ORAM: a map
// from (level, offset) tags to serialized buckets.
type MemoryTreeStorage struct {
	id        uint32
	blockSize uint64
	buckets   map[BucketTag][][]byte
}

var _ TreeStorage = (*MemoryTreeStorage)(nil)

// NewMemoryTreeStorage creates an empty tree storage. blockSize records the
// uncompressed serialized block size for introspection; stored strings are
// compressed and may be shorter.
func NewMemoryTreeStorage(id uint32, blockSize uint64) *MemoryTreeStorage {
	return &MemoryTreeStorage{
		id:        id,
		blockSize: blockSize,
		buckets:   make(map[BucketTag][][]byte),
	}
}

func (s *MemoryTreeStorage) ID() uint32        { return s.id }
func (s *MemoryTreeStorage) BlockSize() uint64 { return s.blockSize }
func (s *MemoryTreeStorage) Layout() Layout    { return TreeLayout }

// ReadBucket returns a copy of the serialized bucket stored at tag.
func (s *MemoryTreeStorage) ReadBucket(tag BucketTag) ([][]byte, error) {
	bucket, ok := s.buckets[tag]
	if !ok {
		return nil, ErrBucketNotFound
	}
	out := make([][]byte, len(bucket))
	for i, block := range bucket {
		out[i] = make([]byte, len(block))
		copy(out[i], block)
	}
	return out, nil
}

// WriteBucket stores a copy of bucket at tag, replacing previous contents.
func (s *MemoryTreeStorage) WriteBucket(tag BucketTag, bucket [][]byte) error {
	stored := make([][]byte, len(bucket))
	for i, block := range bucket {
		stored[i] = make([]byte, len(block))
		copy(stored[i], block)
	}
	s.buckets[tag] = stored
	return nil
}

// Tags returns the tags of all stored buckets in unspecified order.
func (s *MemoryTreeStorage) Tags() ([]BucketTag, error) {
	tags := make([]BucketTag, 0, len(s.buckets))
	for tag := range s.buckets {
		tags = append(tags, tag)
	}
	return tags, nil
}

// Len returns the number of stored buckets.
func (s *MemoryTreeStorage) Len() int {
	return len(s.buckets)
}
