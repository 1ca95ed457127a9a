package partitionoram

import (
	"encoding/binary"
	"testing"

	"github.com/hiroki-chen/PartitionORAM/pkg/cryptor"
)

func TestMarshalUnmarshalBlock_RoundTrip(t *testing.T) {
	c := cryptor.New()
	original := makeNormalBlock(t, 1234, c)
	EncryptBlock(&original, c)

	var decoded Block
	UnmarshalBlock(MarshalBlock(&original), &decoded)

	if decoded != original {
		t.Error("block does not round-trip through marshal/unmarshal")
	}
}

func TestMarshalBlock_FixedSizeInvariant(t *testing.T) {
	c := cryptor.New()

	normal := makeNormalBlock(t, 5, c)
	EncryptBlock(&normal, c)

	var dummy Block
	dummy.Header.Type = BlockDummy
	if err := c.RandomBytes(dummy.Data[:]); err != nil {
		t.Fatalf("failed to randomize payload: %v", err)
	}

	for _, b := range []Block{normal, dummy} {
		if got := len(MarshalBlock(&b)); got != ORAMBlockSize {
			t.Errorf("serialized %v block has %d bytes, want %d", b.Header.Type, got, ORAMBlockSize)
		}
	}
}

func TestMarshalBlock_FieldLayout(t *testing.T) {
	var b Block
	b.Header.BlockID = 0x01020304
	b.Header.Type = BlockDummy
	b.Header.IV[0] = 0xaa
	b.Header.MacTag[0] = 0xbb
	b.Data[0] = 0xcc

	out := MarshalBlock(&b)

	if got := binary.LittleEndian.Uint32(out[0:4]); got != 0x01020304 {
		t.Errorf("block id field = %#x, want 0x01020304", got)
	}
	if out[4] != byte(BlockDummy) {
		t.Errorf("type field = %d, want %d", out[4], BlockDummy)
	}
	if out[5] != 0xaa {
		t.Error("iv field is not at offset 5")
	}
	if out[17] != 0xbb {
		t.Error("mac tag field is not at offset 17")
	}
	if out[BlockHeaderSize] != 0xcc {
		t.Errorf("payload is not at offset %d", BlockHeaderSize)
	}
}

func TestUnmarshalBlock_WrongLengthFaults(t *testing.T) {
	var b Block

	fault := expectFault(t, FaultPrecondition, func() {
		UnmarshalBlock(make([]byte, ORAMBlockSize-1), &b)
	})
	if fault.Kind.SecurityRelevant() {
		t.Error("a length mismatch is an ordinary bug, not a security fault")
	}

	expectFault(t, FaultPrecondition, func() {
		UnmarshalBlock(make([]byte, ORAMBlockSize+1), &b)
	})
}

func TestSerializeDeserializeBucket_RoundTrip(t *testing.T) {
	c := cryptor.New()

	bucket := SampleRandomBucket(4, 4, 0, c)
	for i := range bucket {
		EncryptBlock(&bucket[i], c)
	}

	decoded := DeserializeBucket(SerializeBucket(bucket))

	if len(decoded) != len(bucket) {
		t.Fatalf("deserialized bucket has %d blocks, want %d", len(decoded), len(bucket))
	}
	for i := range bucket {
		if decoded[i] != bucket[i] {
			t.Errorf("block %d does not round-trip", i)
		}
	}
}

func TestDeserializeBucket_CorruptEntryFaults(t *testing.T) {
	bucket := SampleRandomBucket(4, 4, 0, cryptor.New())
	wire := SerializeBucket(bucket)
	wire[2] = wire[2][:ORAMBlockSize-10]

	expectFault(t, FaultPrecondition, func() {
		DeserializeBucket(wire)
	})
}
