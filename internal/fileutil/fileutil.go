// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrIsDirectory = errors.New("path is a directory")
)

// DefaultFileMode is used when a file is created.
const DefaultFileMode os.FileMode = 0o644

// WriteFileAtomic replaces path with content. The data goes to a sibling
// temp file first and is renamed over path, so readers see either the old
// or the new document, never a torn one. An existing file keeps its mode.
func WriteFileAtomic(path string, content []byte) error {
	if path == "" {
		return ErrEmptyPath
	}

	mode := DefaultFileMode
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%w: %s", ErrIsDirectory, path)
		}
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "profile" -> false (name)
//   - "./profile.yaml" -> true (relative path)
//   - "/etc/assetdoc.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
