package assetdoc

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Markdown markers shared by the parser and the generator.
const (
	sectionMarker   = "## "
	titleMarker     = "# "
	generatedPrefix = "Generated:"
	jsonFence       = "```json"
	closingFence    = "```"
	sectionDivider  = "---"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// section is the raw text under one "## " heading.
type section struct {
	index int
	lines []string
}

// Parse converts a profile document into its ordered records.
//
// The text is split on lines starting with "## "; whatever precedes the
// first heading is preamble and ignored here (see ParseDocument). Each
// section contributes a record when it holds a fenced block opened by
// "```json" and closed by a fence on its own line. Sections without such a
// block are skipped silently. Sections whose block is not a valid JSON
// object are skipped and reported as diagnostics; parsing carries on.
func Parse(text string) ([]Record, []Diagnostic) {
	_, sections := splitSections(text)

	records := make([]Record, 0, len(sections))
	var diags []Diagnostic
	for _, s := range sections {
		rec, ok, err := parseSection(s)
		if err != nil {
			diags = append(diags, Diagnostic{Section: s.index, Title: rec.Title, Err: err})
			continue
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, diags
}

// ParseDocument parses records like Parse and also reads the preamble's
// "# <title>" and "Generated: <date>" lines.
func ParseDocument(text string) (Document, []Diagnostic) {
	preamble, _ := splitSections(text)
	records, diags := Parse(text)

	doc := Document{Records: records}
	for _, line := range preamble {
		trimmed := strings.TrimSpace(line)
		switch {
		case doc.Title == "" && strings.HasPrefix(trimmed, titleMarker):
			doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, titleMarker))
		case doc.Generated == "" && strings.HasPrefix(trimmed, generatedPrefix):
			doc.Generated = strings.TrimSpace(strings.TrimPrefix(trimmed, generatedPrefix))
		}
	}
	return doc, diags
}

// splitSections returns the preamble lines and the sections that follow.
// The heading marker is stripped so each section starts with its title.
func splitSections(text string) ([]string, []section) {
	lines := strings.Split(normalizeLineEndings(text), "\n")

	var preamble []string
	var sections []section
	for _, line := range lines {
		if strings.HasPrefix(line, sectionMarker) {
			sections = append(sections, section{
				index: len(sections) + 1,
				lines: []string{strings.TrimPrefix(line, sectionMarker)},
			})
			continue
		}
		if len(sections) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, line)
	}
	return preamble, sections
}

// parseSection extracts the record of one section. ok is false when the
// section carries no complete JSON block. The returned record always holds
// the title so diagnostics can name the section.
func parseSection(s section) (rec Record, ok bool, err error) {
	rec.Title = sectionTitle(s.lines)

	body, found := jsonBlock(s.lines[1:])
	if !found {
		return rec, false, nil
	}

	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return rec, false, fmt.Errorf("%w: %v", ErrMalformedSectionJSON, err)
	}
	obj, isObject := payload.(map[string]any)
	if !isObject {
		return rec, false, fmt.Errorf("%w: payload is %s, want object", ErrMalformedSectionJSON, jsonKind(payload))
	}

	rec.Type = typeString(obj["type"])
	rec.Data = obj["data"]
	return rec, true, nil
}

// sectionTitle is the trimmed heading line, or UntitledSection when blank.
func sectionTitle(lines []string) string {
	if len(lines) == 0 {
		return UntitledSection
	}
	if title := strings.TrimSpace(lines[0]); title != "" {
		return title
	}
	return UntitledSection
}

// jsonBlock returns the content of the first ```json fence in lines.
// The closing fence must stand on its own line. An unclosed block, or a
// closing fence right after the opening one, counts as no block at all.
func jsonBlock(lines []string) (string, bool) {
	start := -1
	for i, line := range lines {
		if start < 0 {
			if isJSONFence(line) {
				start = i + 1
			}
			continue
		}
		if strings.TrimSpace(line) == closingFence {
			if i == start {
				return "", false
			}
			return strings.Join(lines[start:i], "\n"), true
		}
	}
	return "", false
}

// isJSONFence reports whether line opens a fence with the json info string.
func isJSONFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, jsonFence) {
		return false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, jsonFence)) == ""
}

// typeString passes the type tag through; a missing tag becomes "".
func typeString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// jsonKind names the JSON kind of a decoded value for messages.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
