package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrOutputBusy is returned when another render holds the output lock.
var ErrOutputBusy = errors.New("output is being written by another render")

// OutputLock is an advisory lock on "<output>.lock".
type OutputLock struct {
	lock *flock.Flock
}

// LockOutput acquires the lock for an output file without blocking.
func LockOutput(output string) (*OutputLock, error) {
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	lock := flock.New(output + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputBusy, output)
	}
	return &OutputLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	return l.lock.Path()
}

// Release unlocks and removes the lock file.
func (l *OutputLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
