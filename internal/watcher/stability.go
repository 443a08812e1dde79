package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileNotFound is returned when the file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrFileUnstable is returned when the file does not stabilize within the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

// DefaultStabilityTimeout bounds how long WaitForStable keeps sampling.
const DefaultStabilityTimeout = 30 * time.Second

// StabilityChecker waits until a file has stopped changing, so that a run
// does not read a document an editor is still writing.
type StabilityChecker struct {
	threshold time.Duration // Time size and mtime must remain unchanged
	timeout   time.Duration // Maximum time to wait for stability
	interval  time.Duration // How often to sample the file
}

// NewStabilityChecker creates a StabilityChecker with the given threshold,
// DefaultStabilityTimeout, and a sampling interval of threshold/4 (at least 10ms).
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		timeout:   DefaultStabilityTimeout,
		interval:  interval,
	}
}

// fileState is the part of a file's metadata that changes while it is written.
type fileState struct {
	size    int64
	modTime int64
}

// WaitForStable blocks until the size and modification time of path have
// been unchanged for the threshold. It returns ErrFileNotFound if the file
// is missing, ErrFileUnstable on timeout, or the context's error.
func (s *StabilityChecker) WaitForStable(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	last, err := stat(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			current, err := stat(path)
			if err != nil {
				return err
			}
			if current != last {
				last = current
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.threshold {
				return nil
			}
		}
	}
}

func stat(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{}, ErrFileNotFound
		}
		return fileState{}, err
	}
	return fileState{size: info.Size(), modTime: info.ModTime().UnixNano()}, nil
}
