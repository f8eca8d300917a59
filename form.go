package assetdoc

import (
	"fmt"
	"strings"
)

// Shape tells how a field's raw value is decoded before assignment.
type Shape string

// Supported field shapes.
const (
	ShapeScalar  Shape = "scalar"  // value used as-is
	ShapeCSV     Shape = "csv"     // comma list: "a, b ,c" -> [a b c]
	ShapeLines   Shape = "lines"   // one item per line, blanks dropped
	ShapeBoolean Shape = "boolean" // Checked state, Value ignored
)

// shapeAliases maps the editor's data-type attribute names onto shapes.
var shapeAliases = map[string]Shape{
	"":            ShapeScalar,
	"scalar":      ShapeScalar,
	"text":        ShapeScalar,
	"csv":         ShapeCSV,
	"array":       ShapeCSV,
	"lines":       ShapeLines,
	"array-lines": ShapeLines,
	"boolean":     ShapeBoolean,
	"bool":        ShapeBoolean,
	"checkbox":    ShapeBoolean,
}

// ParseShape resolves a shape name, case-insensitively.
// The empty string is the scalar shape.
func ParseShape(name string) (Shape, error) {
	s, ok := shapeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return s, nil
}

// Field is one flat form input bound to a nested data path.
type Field struct {
	Path    string `json:"path"`
	Value   string `json:"value"`
	Checked bool   `json:"checked,omitempty"`
	Shape   Shape  `json:"shape,omitempty"`
}

// Decode returns the value the field contributes to the data tree.
func (f Field) Decode() (any, error) {
	shape, err := ParseShape(string(f.Shape))
	if err != nil {
		return nil, err
	}
	switch shape {
	case ShapeCSV:
		return splitNonEmpty(f.Value, ","), nil
	case ShapeLines:
		return splitNonEmpty(normalizeLineEndings(f.Value), "\n"), nil
	case ShapeBoolean:
		return f.Checked, nil
	default:
		return f.Value, nil
	}
}

// Collect builds a fresh data tree from fields.
func Collect(fields []Field) (map[string]any, error) {
	out := map[string]any{}
	if _, err := ApplyTo(out, fields); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTo assigns each field into target with Set, in order, so a later
// field targeting the same path wins. Fields without a path are ignored.
// The returned root must be used when target is an array or nil.
func ApplyTo(target any, fields []Field) (any, error) {
	root := target
	for i, f := range fields {
		if f.Path == "" {
			continue
		}
		value, err := f.Decode()
		if err != nil {
			return root, fmt.Errorf("field %d (%s): %w", i, f.Path, err)
		}
		root, err = Set(root, f.Path, value)
		if err != nil {
			return root, fmt.Errorf("field %d (%s): %w", i, f.Path, err)
		}
	}
	return root, nil
}

// splitNonEmpty splits s on sep, trims each piece and drops empty ones.
// Always returns a non-nil slice so an emptied list encodes as [].
func splitNonEmpty(s, sep string) []any {
	out := []any{}
	for _, piece := range strings.Split(s, sep) {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
