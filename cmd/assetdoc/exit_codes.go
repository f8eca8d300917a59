package main

import (
	"errors"
	"os"

	"github.com/alnah/go-assetdoc"
	"github.com/alnah/go-assetdoc/internal/assets"
	"github.com/alnah/go-assetdoc/internal/config"
	"github.com/alnah/go-assetdoc/internal/logging"
	"github.com/alnah/go-assetdoc/internal/storage"
)

// Exit codes for the assetdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or arguments
	ExitIO      = 3 // Document or file unreadable/unwritable
	ExitData    = 4 // Document content is malformed or cannot be encoded
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Data errors (exit 4)
	if errors.Is(err, ErrDiagnostics) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, assetdoc.ErrMalformedSectionJSON) ||
		errors.Is(err, assetdoc.ErrNonSerializableData) ||
		errors.Is(err, assetdoc.ErrDecodeData) ||
		errors.Is(err, assetdoc.ErrFieldInvalid) ||
		errors.Is(err, assetdoc.ErrPathShapeConflict) ||
		errors.Is(err, assetdoc.ErrInvalidRoot) {
		return ExitData
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, assetdoc.ErrUnreadableDocument) ||
		errors.Is(err, assetdoc.ErrWriteDocument) ||
		errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrIO) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, assetdoc.ErrEmptyPath) ||
		errors.Is(err, assetdoc.ErrUnknownShape) ||
		errors.Is(err, assetdoc.ErrRecordIndex) ||
		errors.Is(err, assetdoc.ErrUnknownAssetType) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, storage.ErrUnknownBackend) ||
		errors.Is(err, storage.ErrInvalidConfig) ||
		errors.Is(err, logging.ErrUnsupportedFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
