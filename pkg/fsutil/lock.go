package fsutil

import (
	"context"
	"fmt"
	"os"
	"time"
)

// lockPollInterval is how often a blocked Lock retries.
const lockPollInterval = 50 * time.Millisecond

// FileLock is an exclusive advisory lock backed by a lock file.
type FileLock struct {
	path string
	file *os.File
}

// Lock acquires an exclusive advisory lock on path, creating the file if
// needed. It blocks until the lock is held or ctx is done.
func Lock(ctx context.Context, path string) (*FileLock, error) {
	if err := EnsureFileDir(path); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileModeDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	for {
		ok, err := tryLock(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}
		if ok {
			return &FileLock{path: path, file: f}, nil
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string { return l.path }

// Unlock releases the lock. The lock file is left in place.
func (l *FileLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlock(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
