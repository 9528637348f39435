// Package fsutil provides file system utilities for gorazor: atomic writes
// of generated code and content stamps that tell real template edits apart
// from events that left a file unchanged.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilStamp is returned when a nil Stamp is checked.
	ErrNilStamp = errors.New("nil stamp")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// Stamp captures the state of a file at a point in time.
type Stamp struct {
	// Path is the absolute or relative path to the file.
	Path string

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the file content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content along with its stamp.
func ReadFile(ctx context.Context, path string) ([]byte, *Stamp, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, statError(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, statError(path, err)
	}

	stamp := &Stamp{
		Path:    path,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}
	return content, stamp, nil
}

// StampFile returns the stamp of a file without keeping its content.
func StampFile(ctx context.Context, path string) (*Stamp, error) {
	_, stamp, err := ReadFile(ctx, path)
	return stamp, err
}

// Changed reports whether the file differs from the stamp. A deleted file
// has changed. Files whose modification time or size moved are re-hashed, so
// a touch without an edit is not a change.
func (s *Stamp) Changed(ctx context.Context) (bool, error) {
	if s == nil {
		return false, ErrNilStamp
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check changed: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}

	if stat.ModTime().Equal(s.ModTime) && stat.Size() == s.Size {
		return false, nil
	}
	if stat.Size() != s.Size {
		return true, nil
	}

	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(content) != s.Hash, nil
}

func statError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
