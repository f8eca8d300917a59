package assetdoc

import "errors"

// Sentinel errors for library operations.
var (
	// ErrMalformedSectionJSON marks a section whose ```json block does not parse.
	// The parser recovers by skipping the section and reporting a Diagnostic.
	ErrMalformedSectionJSON = errors.New("malformed section JSON")

	// ErrUnreadableDocument is fatal for a load: no partial document is returned.
	ErrUnreadableDocument = errors.New("unreadable document")

	// ErrNonSerializableData is fatal for a generate: no partial output is produced.
	ErrNonSerializableData = errors.New("non-serializable asset data")

	// ErrPathShapeConflict reports an intermediate container whose kind disagrees
	// with the next path segment. Set repairs it; SetStrict returns it.
	ErrPathShapeConflict = errors.New("path shape conflict")

	ErrWriteDocument = errors.New("failed to write document")
	ErrRecordIndex   = errors.New("record index out of range")
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrInvalidRoot = errors.New("root must be an object or array")
)

// Form errors.
var (
	ErrUnknownShape = errors.New("unknown field shape")
	ErrFieldInvalid = errors.New("field validation failed")
)

// Typed data errors.
var (
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrDecodeData       = errors.New("failed to decode asset data")
)

// Preview errors.
var ErrHTMLConversion = errors.New("HTML conversion failed")
