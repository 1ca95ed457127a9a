// Package diskinfo reports disk capacity for directories backing persistent
// ORAM storage.
package diskinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

const gib = 1024 * 1024 * 1024

// Usage returns total and free bytes on the filesystem holding path.
func Usage(path string) (total, free uint64, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	// Walk up until an existing directory is found so that usage can be
	// reported for paths Badger has not created yet.
	current := absPath
	for {
		if _, statErr := os.Stat(current); statErr == nil {
			break
		} else if !os.IsNotExist(statErr) {
			return 0, 0, statErr
		}
		parent := filepath.Dir(current)
		if parent == current {
			return 0, 0, fmt.Errorf("path does not exist: %s", path)
		}
		current = parent
	}

	stats, err := disk.Usage(current)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read disk usage for %s: %w", current, err)
	}
	return stats.Total, stats.Free, nil
}

// HasMinimumFreeSpace reports whether the filesystem holding path has at
// least minFreeGiB gibibytes free.
func HasMinimumFreeSpace(path string, minFreeGiB int) (bool, error) {
	if minFreeGiB <= 0 {
		return true, nil
	}
	_, free, err := Usage(path)
	if err != nil {
		return false, err
	}
	return free >= uint64(minFreeGiB)*gib, nil
}

// LogUsage writes the disk usage of path to the given logger.
func LogUsage(logger *logrus.Logger, path string) error {
	total, free, err := Usage(path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"path":      path,
		"total_gib": float64(total) / gib,
		"free_gib":  float64(free) / gib,
	}).Info("Disk usage for ORAM storage path")
	return nil
}
