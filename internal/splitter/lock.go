package splitter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the output directory while a split runs.
const LockFileName = ".chapsplit.lock"

// ErrLocked is returned when another split is writing to the same directory.
var ErrLocked = errors.New("output directory is locked by another chapsplit run")

func lockDir(dir string) (*flock.Flock, error) {
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return lock, nil
}
