// Package storage defines the server-side storage contract of the ORAM
// layer and its concrete layouts. A storage instance holds only opaque
// serialized block bytes (compressed and, for normal blocks, encrypted) at
// positional addresses; it never interprets block semantics. That blindness
// is what lets the same contract serve square-root and partition tree
// shapes alike.
//
// No layout implements internal locking. A single instance must not be read
// and written concurrently without an external mutual-exclusion guarantee,
// since writes of a block are not atomic at this level.
package storage

import "errors"

var (
	ErrOutOfRange     = errors.New("storage: position out of range")
	ErrWrongBlockSize = errors.New("storage: data length does not match block size")
	ErrBucketNotFound = errors.New("storage: no bucket at tag")
	ErrEmptySlot      = errors.New("storage: slot has never been written")
)

// Layout identifies the addressing scheme of a storage instance.
type Layout int

const (
	// FlatLayout is a contiguous array of fixed-size slots addressed by
	// index (square-root ORAM).
	FlatLayout Layout = iota
	// TreeLayout is a map from structural (level, offset) tags to whole
	// serialized buckets (partition ORAM).
	TreeLayout
)

func (l Layout) String() string {
	switch l {
	case FlatLayout:
		return "flat"
	case TreeLayout:
		return "tree"
	default:
		return "unknown"
	}
}

// BucketTag addresses one node of the ORAM tree.
type BucketTag struct {
	Level  uint32
	Offset uint32
}

// Storage is the capability set shared by all layouts.
type Storage interface {
	// ID identifies this storage instance within a deployment.
	ID() uint32

	// BlockSize returns the fixed serialized block size in bytes that
	// flat slots are validated against. Tree layouts store compressed
	// buckets and accept variable-length strings.
	BlockSize() uint64

	// Layout returns the addressing scheme.
	Layout() Layout
}

// FlatStorage is the positional contract of square-root ORAM: a single
// contiguous addressable space of fixed-size slots.
type FlatStorage interface {
	Storage

	// ReadBlock returns the bytes stored at pos.
	ReadBlock(pos uint32) ([]byte, error)

	// WriteBlock stores data at pos. The data length must equal the
	// configured block size.
	WriteBlock(pos uint32, data []byte) error

	// InRange reports whether pos addresses a valid slot.
	InRange(pos uint32) bool

	// Capacity returns the total number of addressable slots.
	Capacity() uint64
}

// TreeStorage is the tagged contract of partition ORAM: whole buckets read
// and written per structural tag.
type TreeStorage interface {
	Storage

	// ReadBucket returns the serialized bucket stored at tag.
	ReadBucket(tag BucketTag) ([][]byte, error)

	// WriteBucket stores a serialized bucket at tag, replacing any
	// previous contents.
	WriteBucket(tag BucketTag, bucket [][]byte) error

	// Tags returns the tags of all buckets currently stored.
	Tags() ([]BucketTag, error)
}
