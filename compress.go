package partitionoram

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressData compresses data for the at-rest server-side representation.
// Compression happens after encryption: ciphertext is already high-entropy,
// so compressing it only reduces the footprint of the plaintext header and
// any dummy filler without reintroducing distinguishability.
//
// Compression failure raises an unrecoverable Fault; corrupted compressed
// data must not silently degrade into storing garbage.
func CompressData(data []byte) []byte {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		raise(FaultCompression, "create zstd writer", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		raise(FaultCompression, "compress block data", err)
	}
	if err := enc.Close(); err != nil {
		raise(FaultCompression, "flush compressed block data", err)
	}
	return buf.Bytes()
}

// DecompressData reverses CompressData. Decompression failure raises an
// unrecoverable Fault.
func DecompressData(data []byte) []byte {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		raise(FaultCompression, "create zstd reader", err)
	}
	defer dec.Close()

	out, err := io.ReadAll(dec)
	if err != nil {
		raise(FaultCompression, "decompress block data", err)
	}
	return out
}
