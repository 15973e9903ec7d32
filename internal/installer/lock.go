package installer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// LockFile is created in the target directory during a fetch install.
	LockFile = ".sfinstall.lock"
	// StaleLockThreshold is how old a lock may get before another run takes it over.
	StaleLockThreshold = 10 * time.Minute
)

// ErrLocked is returned when another install holds the target directory.
var ErrLocked = errors.New("another install holds the target directory")

// LockedError describes the lock that blocked AcquireLock.
type LockedError struct {
	Path string
	PID  string // empty when the lock has no readable owner
	Age  time.Duration
}

func (e *LockedError) Error() string {
	owner := "unknown process"
	if e.PID != "" {
		owner = "pid " + e.PID
	}
	return fmt.Sprintf("%s: %s (held by %s for %s, remove it if no install is running)",
		ErrLocked, e.Path, owner, e.Age.Round(time.Second))
}

func (e *LockedError) Is(target error) bool { return target == ErrLocked }

// Lock is an exclusive hold on a target directory.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates dir/LockFile exclusively. A lock older than
// StaleLockThreshold is taken over once.
func AcquireLock(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	path := filepath.Join(dir, LockFile)
	file, err := createExclusive(path)
	if errors.Is(err, os.ErrExist) {
		held, statErr := inspectLock(path)
		if statErr != nil || held.Age <= StaleLockThreshold {
			return nil, held
		}
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, held
		}
		if file, err = createExclusive(path); errors.Is(err, os.ErrExist) {
			return nil, &LockedError{Path: path}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	meta := fmt.Sprintf("pid=%d\nstarted=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(meta); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{path: path, file: file}, nil
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
}

// inspectLock always returns a usable *LockedError, even alongside a stat failure.
func inspectLock(path string) (*LockedError, error) {
	held := &LockedError{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return held, err
	}
	held.Age = time.Since(info.ModTime())

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if pid, ok := strings.CutPrefix(scanner.Text(), "pid="); ok {
				held.PID = strings.TrimSpace(pid)
				break
			}
		}
	}
	return held, nil
}

// Release removes the lock file. Calling it more than once is safe.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
