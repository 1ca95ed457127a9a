package storage

// SqrtStorage is the in-memory flat layout of square-root ORAM. Its backing
// space is partitioned into three contiguous regions understood only by the
// square-root ORAM algorithm:
//
//	[0, m)               main memory
//	[m, m+sqrtM)         dummy pool
//	[m+sqrtM, m+2*sqrtM) shelter
//
// The storage itself is layout-agnostic and treats the whole space as an
// opaque array of fixed-size slots; the region split only sizes the array.
type SqrtStorage struct {
	id        uint32
	blockSize uint64
	numBlocks uint64
	sqrtM     uint64
	slots     [][]byte
}

var _ FlatStorage = (*SqrtStorage)(nil)

// NewSqrtStorage creates flat storage for m main-memory blocks plus sqrtM
// dummy and sqrtM shelter slots, each slot blockSize bytes.
func NewSqrtStorage(id uint32, numBlocks, sqrtM, blockSize uint64) *SqrtStorage {
	return &SqrtStorage{
		id:        id,
		blockSize: blockSize,
		numBlocks: numBlocks,
		sqrtM:     sqrtM,
		slots:     make([][]byte, numBlocks+2*sqrtM),
	}
}

func (s *SqrtStorage) ID() uint32        { return s.id }
func (s *SqrtStorage) BlockSize() uint64 { return s.blockSize }
func (s *SqrtStorage) Layout() Layout    { return FlatLayout }

// Capacity returns the total slot count across all three regions.
func (s *SqrtStorage) Capacity() uint64 {
	return s.numBlocks + 2*s.sqrtM
}

// MainMemorySize returns the number of main-memory slots.
func (s *SqrtStorage) MainMemorySize() uint64 { return s.numBlocks }

// DummyOffset returns the first slot index of the dummy pool.
func (s *SqrtStorage) DummyOffset() uint32 { return uint32(s.numBlocks) }

// ShelterOffset returns the first slot index of the shelter.
func (s *SqrtStorage) ShelterOffset() uint32 { return uint32(s.numBlocks + s.sqrtM) }

// InRange reports whether pos addresses a valid slot in any region.
func (s *SqrtStorage) InRange(pos uint32) bool {
	return uint64(pos) < s.Capacity()
}

// ReadBlock returns a copy of the bytes stored at pos.
func (s *SqrtStorage) ReadBlock(pos uint32) ([]byte, error) {
	if !s.InRange(pos) {
		return nil, ErrOutOfRange
	}
	slot := s.slots[pos]
	if slot == nil {
		return nil, ErrEmptySlot
	}
	out := make([]byte, len(slot))
	copy(out, slot)
	return out, nil
}

// WriteBlock stores a copy of data at pos.
func (s *SqrtStorage) WriteBlock(pos uint32, data []byte) error {
	if !s.InRange(pos) {
		return ErrOutOfRange
	}
	if uint64(len(data)) != s.blockSize {
		return ErrWrongBlockSize
	}
	slot := make([]byte, len(data))
	copy(slot, data)
	s.slots[pos] = slot
	return nil
}
