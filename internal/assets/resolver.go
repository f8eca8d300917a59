package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirLoader loads styles from <basePath>/<name>.css.
type DirLoader struct {
	basePath string
}

// NewDirLoader creates a DirLoader. basePath must be a readable directory.
func NewDirLoader(basePath string) (*DirLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	return &DirLoader{basePath: abs}, nil
}

// LoadStyle implements StyleLoader.
func (d *DirLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	path := filepath.Join(d.basePath, name+".css")
	if err := d.contains(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- contained in basePath
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// contains rejects paths that resolve (through symlinks) outside basePath.
func (d *DirLoader) contains(path string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if !strings.HasPrefix(path, d.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return nil
}

// Resolver tries a style directory first and falls back to the embedded
// styles when the directory has no file of that name.
type Resolver struct {
	dir      StyleLoader // nil when no directory is configured
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty dir uses embedded styles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir != "" {
		dl, err := NewDirLoader(dir)
		if err != nil {
			return nil, err
		}
		r.dir = dl
	}
	return r, nil
}

// LoadStyle implements StyleLoader. Only ErrStyleNotFound triggers the
// fallback; validation and read errors are returned as is.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if name == "" {
		name = DefaultStyle
	}
	if r.dir == nil {
		return r.embedded.LoadStyle(name)
	}
	css, err := r.dir.LoadStyle(name)
	if err == nil {
		return css, nil
	}
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

var _ StyleLoader = (*Resolver)(nil)
