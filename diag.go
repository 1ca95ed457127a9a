package partitionoram

import (
	"github.com/sirupsen/logrus"

	"github.com/hiroki-chen/PartitionORAM/storage"
)

// Diagnostics for debugging ORAM state. These helpers log through an
// explicitly injected logger so that embedding services control the sink.
// They are debug tooling, not part of the oblivious access path: dumping
// block ids of a live deployment reveals exactly what the protocol works to
// hide.

// DumpStash logs every block in the stash at debug level.
func DumpStash(logger *logrus.Logger, stash Stash) {
	logger.WithField("blocks", len(stash)).Debug("Stash contents")

	for i := range stash {
		logger.WithFields(logrus.Fields{
			"id":    stash[i].Header.BlockID,
			"type":  stash[i].Header.Type.String(),
			"data0": stash[i].Data[0],
		}).Debug("Stash block")
	}
}

// DumpTree logs the shape and block headers of a stored ORAM tree at debug
// level, decompressing each at-rest block. Headers are stored in the clear,
// so no cryptographic provider is needed.
func DumpTree(logger *logrus.Logger, store storage.TreeStorage) error {
	tags, err := store.Tags()
	if err != nil {
		return err
	}
	logger.WithField("buckets", len(tags)).Debug("ORAM tree contents")

	for _, tag := range tags {
		bucket, err := store.ReadBucket(tag)
		if err != nil {
			return err
		}

		entry := logger.WithFields(logrus.Fields{
			"level":  tag.Level,
			"offset": tag.Offset,
		})
		entry.Debug("Bucket")

		for _, data := range bucket {
			var block Block
			UnmarshalBlock(DecompressData(data), &block)
			entry.WithFields(logrus.Fields{
				"id":   block.Header.BlockID,
				"type": block.Header.Type.String(),
			}).Debug("Bucket block")
		}
	}
	return nil
}
