package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	partitionoram "github.com/hiroki-chen/PartitionORAM"
	"github.com/hiroki-chen/PartitionORAM/storage"
)

func main() {
	path := flag.String("path", "", "path to the ORAM tree storage directory")
	dump := flag.Bool("dump", false, "print block headers for every stored bucket")
	dataShards := flag.Int("data-shards", 0, "Reed-Solomon data shard count the store was written with (0 = unsharded)")
	parityShards := flag.Int("parity-shards", 0, "Reed-Solomon parity shard count the store was written with")
	flag.Parse()

	if *path == "" {
		log.Fatal("-path is required")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)

	cfg := &storage.Config{
		Path:         *path,
		Logger:       logger,
		DataShards:   uint8(*dataShards),
		ParityShards: uint8(*parityShards),
	}

	store, err := storage.NewBadgerTreeStorage(0, partitionoram.ORAMBlockSize, cfg)
	if err != nil {
		log.Fatalf("failed to open tree storage at %s: %v", *path, err)
	}
	defer store.Close()

	tags, err := store.Tags()
	if err != nil {
		log.Fatalf("failed to list buckets: %v", err)
	}

	levels := make(map[uint32]int)
	for _, tag := range tags {
		levels[tag.Level]++
	}

	fmt.Printf("Store path: %s\n", *path)
	fmt.Printf("Buckets: %d\n", len(tags))
	for level, count := range levels {
		fmt.Printf("Level %d: %d buckets\n", level, count)
	}

	if !*dump {
		return
	}

	for _, tag := range tags {
		bucket, err := store.ReadBucket(tag)
		if err != nil {
			log.Fatalf("failed to read bucket at level %d offset %d: %v", tag.Level, tag.Offset, err)
		}

		fmt.Printf("Bucket level=%d offset=%d blocks=%d\n", tag.Level, tag.Offset, len(bucket))
		for _, data := range bucket {
			var block partitionoram.Block
			partitionoram.UnmarshalBlock(partitionoram.DecompressData(data), &block)
			fmt.Printf("  id=%d type=%s\n", block.Header.BlockID, block.Header.Type)
		}
	}
}
