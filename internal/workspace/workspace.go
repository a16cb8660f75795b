// Package workspace prepares the output directory a capture run writes into
// and guards it against concurrent runs.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"pagecap/internal/services"
)

// ErrBusy reports that another run holds the output directory.
var ErrBusy = errors.New("output directory in use by another run")

const stageName = "workspace"

// Prepare ensures dir exists. With clear set, any existing contents are
// removed first; otherwise existing files are left alone.
func Prepare(dir string, clear bool) error {
	if dir == "" {
		return errors.New("output directory required")
	}
	if clear {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear output directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Lock is an exclusive advisory lock on an output directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the sibling lock file guarding dir.
func LockPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	return abs + ".lock", nil
}

// Acquire takes the lock for dir without blocking. Contention is reported as
// an environment error wrapping ErrBusy.
func Acquire(dir string) (*Lock, error) {
	path, err := LockPath(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrEnvironment, stageName, "lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrEnvironment, stageName, "lock", path, ErrBusy)
	}
	return l, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock and removes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
