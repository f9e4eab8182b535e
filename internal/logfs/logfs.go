// Package logfs owns the supervisor's log directory: one append-only file per
// component, created on first write and never rotated or truncated.
package logfs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Init ensures the log directory exists and is writable. A failure here aborts
// the whole startup sequence: nothing downstream can run without logs.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log dir %s: %w", dir, err)
	}
	return nil
}

// OpenAppend opens the named log file inside dir in append mode, creating it
// if needed. The caller owns the returned file.
func OpenAppend(dir, name string) (*os.File, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}
