package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

var ErrLockTimeout = errors.New("timed out waiting for file lock")

const lockPollInterval = 25 * time.Millisecond

// FileLock is an exclusive flock held on "<path>.lock". Two CI jobs writing
// the same data file serialize on it; readers never take it.
type FileLock struct {
	file *os.File
}

func lockPath(path string) string {
	return path + ".lock"
}

// AcquireLock polls for the lock of path until it is free or ctx is done.
func AcquireLock(ctx context.Context, path string) (*FileLock, error) {
	name := lockPath(path)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &FileLock{file: f}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, fmt.Errorf("flock %s: %w", name, err)
		}

		select {
		case <-ctx.Done():
			f.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, name)
		case <-time.After(lockPollInterval):
		}
	}
}

// Release drops the lock. The lock file itself is left in place.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	cerr := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	return cerr
}
