// Package cache inspects and cleans the download directory. Archives are
// removed after a successful install, so anything left there comes from
// interrupted downloads or failed installs.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/fsutil"
)

// Info describes the cache contents.
type Info struct {
	Directory string
	TotalSize int64
	Files     int
}

// Manager manages one cache directory.
type Manager struct {
	directory string
}

// NewManager creates a cache manager for directory.
func NewManager(directory string) *Manager {
	return &Manager{directory: directory}
}

// Directory returns the cache directory.
func (cm *Manager) Directory() string { return cm.directory }

// Info returns the cache size and file count. A missing directory is empty.
func (cm *Manager) Info() (*Info, error) {
	size, count, err := dirSizeAndFiles(cm.directory)
	if err != nil {
		return nil, err
	}
	return &Info{Directory: cm.directory, TotalSize: size, Files: count}, nil
}

// Clean empties the cache and returns the number of bytes freed. The
// directory itself is recreated.
func (cm *Manager) Clean() (int64, error) {
	size, _, err := dirSizeAndFiles(cm.directory)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(cm.directory); err != nil {
		return 0, errors.Wrapf(err, "failed to remove directory %s", cm.directory)
	}
	if err := fsutil.EnsureDir(cm.directory); err != nil {
		return size, errors.Wrapf(err, "failed to recreate directory %s", cm.directory)
	}
	logger.Debug("cache cleaned", logger.Fields{"directory": cm.directory, "freed": size})
	return size, nil
}

func dirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}

// FormatBytes converts bytes to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
