// Package assets provides the stylesheets embedded in HTML previews.
// Styles can come from the binary or from a directory on disk that
// overrides them by name.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed styles/*
var styles embed.FS

// DefaultStyle is the style used when none is configured.
const DefaultStyle = "default"

// Sentinel errors for style loading.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// StyleLoader loads a CSS style by name (without the .css extension).
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// EmbeddedLoader serves the styles compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle implements StyleLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// EmbeddedStyles lists the names of the built-in styles.
func EmbeddedStyles() []string {
	entries, err := styles.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	return names
}

// LoadStyle loads a built-in style.
func LoadStyle(name string) (string, error) {
	return NewEmbeddedLoader().LoadStyle(name)
}

// ValidateAssetName rejects empty names and names carrying path separators
// or dots, so a name can never select a file outside the styles directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

var _ StyleLoader = (*EmbeddedLoader)(nil)
