// Package storage holds the backends a profile document can live in:
// a local file, process memory, or an S3-compatible bucket.
//
// Every backend reads and overwrites the whole document; there are no
// partial updates.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alnah/go-assetdoc/internal/fileutil"
)

// Sentinel errors shared by all backends.
var (
	ErrNotFound       = errors.New("document not found")
	ErrIO             = errors.New("storage I/O failed")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrInvalidConfig  = errors.New("invalid storage config")
)

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// Store reads and overwrites one document.
type Store interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string // file backend
	Seed    string // memory backend initial content
	S3      S3Config
}

// Open builds the Store described by cfg. An empty backend means file.
func Open(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendMemory:
		return NewMemoryStore(cfg.Seed), nil
	case BackendS3:
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// FileStore keeps the document in a file on disk. Writes are atomic.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path. The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: file path is required", ErrInvalidConfig)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// ReadText implements Store.
func (s *FileStore) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	return string(data), nil
}

// WriteText implements Store.
func (s *FileStore) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(s.path, []byte(text)); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// MemoryStore keeps the document in memory. Useful for tests and demos.
type MemoryStore struct {
	mu     sync.RWMutex
	text   string
	exists bool
	writes int
}

// NewMemoryStore creates a MemoryStore. A non-empty seed is the initial
// document; otherwise reads fail with ErrNotFound until the first write.
func NewMemoryStore(seed string) *MemoryStore {
	return &MemoryStore{text: seed, exists: seed != ""}
}

// ReadText implements Store.
func (s *MemoryStore) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return "", ErrNotFound
	}
	return s.text, nil
}

// WriteText implements Store.
func (s *MemoryStore) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.exists = true
	s.writes++
	return nil
}

// Writes reports how many times the document was written.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
