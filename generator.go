package assetdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-assetdoc/internal/dateutil"
)

// DefaultDocumentTitle heads every generated document unless overridden.
const DefaultDocumentTitle = "qonto - Company Profile"

// jsonIndent is the indentation of the pretty-printed payloads.
const jsonIndent = "  "

// Generator renders records back into a profile document.
// The zero value is ready to use.
type Generator struct {
	Title      string           // document heading (default DefaultDocumentTitle)
	DateFormat string           // dateutil tokens or preset (default DD/MM/YYYY)
	Now        func() time.Time // clock for the Generated stamp (default time.Now)
}

// payload is the JSON written inside each fence. Field order is the output
// order: type first, then data. The title lives only in the heading.
type payload struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Generate renders records with a zero Generator.
func Generate(records []Record) (string, error) {
	return Generator{}.Generate(records)
}

// Generate renders the document header followed by one section per record,
// in input order, separated by "---" lines. Records are not modified.
// Data that cannot be encoded as JSON fails the whole call with
// ErrNonSerializableData; nothing partial is returned.
func (g Generator) Generate(records []Record) (string, error) {
	header, err := g.header()
	if err != nil {
		return "", err
	}

	sections := make([]string, 0, len(records))
	for i, rec := range records {
		block, err := encodePayload(rec)
		if err != nil {
			return "", fmt.Errorf("record %d (%q): %w", i, rec.Title, err)
		}
		sections = append(sections, sectionMarker+headingText(rec.Title)+"\n\n"+jsonFence+"\n"+block+"\n"+closingFence)
	}

	var out strings.Builder
	out.WriteString(header)
	if len(sections) > 0 {
		out.WriteString("\n\n")
		out.WriteString(strings.Join(sections, "\n\n"+sectionDivider+"\n\n"))
	}
	out.WriteString("\n")
	return out.String(), nil
}

// header renders "# <title>\nGenerated: <date>".
func (g Generator) header() (string, error) {
	title := g.Title
	if title == "" {
		title = DefaultDocumentTitle
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	stamp, err := dateutil.Format(g.DateFormat, now())
	if err != nil {
		return "", err
	}
	return titleMarker + headingText(title) + "\n" + generatedPrefix + " " + stamp, nil
}

// headingText flattens a title onto one line so it survives as a heading.
func headingText(title string) string {
	title = strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(title))
	if title == "" {
		return UntitledSection
	}
	return title
}

// encodePayload pretty-prints {type, data} without HTML escaping.
func encodePayload(rec Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(payload{Type: rec.Type, Data: rec.Data}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNonSerializableData, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
