// Package filelock serialises maintenance runs against the same vault
// with an advisory lock file shared across processes.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// DefaultRetryDelay is how often LockContext polls a held lock
const DefaultRetryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock for coordinating access to a vault.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The parent directory is created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns false if the lock is held by another process or handle.
func (fl *FileLock) TryLock() (bool, error) {
	if err := fl.ensureDir(); err != nil {
		return false, err
	}
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// LockContext blocks until the lock is acquired or ctx is done.
func (fl *FileLock) LockContext(ctx context.Context) error {
	if err := fl.ensureDir(); err != nil {
		return err
	}
	acquired, err := fl.flock.TryLockContext(ctx, DefaultRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !acquired {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Locked reports whether this handle currently holds the lock
func (fl *FileLock) Locked() bool {
	return fl.flock.Locked()
}

func (fl *FileLock) ensureDir() error {
	dir := filepath.Dir(fl.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
