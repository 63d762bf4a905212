// Package runlock keeps two dcimsort runs from sorting into the same output
// directory at once.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"

	"dcimsort/internal/services"
)

// Lock is an acquired advisory lock on one output directory.
type Lock struct {
	target string
	path   string
	lock   *flock.Flock
}

// PathFor returns the lock file used for target inside lockDir.
func PathFor(lockDir, target string) string {
	key := strconv.FormatUint(xxhash.Sum64String(filepath.Clean(target)), 16)
	return filepath.Join(lockDir, key+".lock")
}

// Acquire takes the lock for target without blocking. A lock held by
// another process yields an error marked services.ErrConflict.
func Acquire(lockDir, target string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := PathFor(lockDir, target)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, "runlock", "acquire",
			fmt.Sprintf("another dcimsort run is already sorting into %s", target), nil)
	}
	return &Lock{target: target, path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Target returns the locked output directory.
func (l *Lock) Target() string { return l.target }

// Release unlocks the lock file. Calling it on a nil Lock is a
// no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	l.lock = nil
	return nil
}
