package assetdoc

import "fmt"

// UntitledSection is the title given to a section whose heading line is blank.
const UntitledSection = "Untitled"

// Record is one typed content block of a profile document.
//
// Data holds a JSON value tree in Go's decoded form: map[string]any,
// []any, string, float64, bool or nil. No schema is enforced here; see
// Decode for the typed view of known asset types.
type Record struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Data  any    `json:"data"`
}

// Document is an ordered list of records plus the preamble metadata.
// Record order is the only ordering used for navigation and layout.
type Document struct {
	Title     string   `json:"title"`
	Generated string   `json:"generated"`
	Records   []Record `json:"assets"`
}

// Diagnostic is a non-fatal problem found while parsing a section.
type Diagnostic struct {
	Section int    // 1-based section index, preamble excluded
	Title   string // section heading
	Err     error  // wraps ErrMalformedSectionJSON
}

// String renders the diagnostic for operator logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("section %d (%q): %v", d.Section, d.Title, d.Err)
}

// Error lets a Diagnostic travel as an error value.
func (d Diagnostic) Error() string { return d.String() }

// Unwrap exposes the underlying cause for errors.Is.
func (d Diagnostic) Unwrap() error { return d.Err }

// IndexOfType returns the index of the first record with the given type, or -1.
func (d *Document) IndexOfType(assetType string) int {
	for i, r := range d.Records {
		if r.Type == assetType {
			return i
		}
	}
	return -1
}

// ReplaceData swaps the data of the first record with the given type.
// Reports whether a record was found.
func (d *Document) ReplaceData(assetType string, data any) bool {
	i := d.IndexOfType(assetType)
	if i < 0 {
		return false
	}
	d.Records[i].Data = data
	return true
}

// Record returns a pointer to the record at index i.
func (d *Document) Record(i int) (*Record, error) {
	if i < 0 || i >= len(d.Records) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrRecordIndex, i, len(d.Records))
	}
	return &d.Records[i], nil
}
