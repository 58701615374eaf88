// Package storage reads and writes the JSON blobs that back document stores.
// It is stateless: every store shares the same read/write functions and the
// caller decides when and what to persist.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteError reports a failed write of a backing file. It carries the target
// path and wraps the underlying cause.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Read returns the raw contents of the blob at path. A missing file surfaces
// as an error satisfying errors.Is(err, fs.ErrNotExist) so callers can treat
// it as an empty store.
func Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write atomically replaces the blob at path, creating the parent directory
// when it does not exist yet. The data is written to a temp file first and
// renamed into place so readers never observe a partial file.
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	// Rename temp file to actual file (atomic on most filesystems)
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile) // Clean up temp file
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
