// Package dateutil renders the "Generated:" stamp of profile documents
// from user-friendly date format strings.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is the stamp format written by the generator.
const DefaultDateFormat = "DD/MM/YYYY"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common date formats.
var Presets = map[string]string{
	"european": "DD/MM/YYYY",
	"iso":      "YYYY-MM-DD",
	"us":       "MM/DD/YYYY",
	"long":     "D MMMM YYYY",
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D)
// to Go's reference layout. Text inside brackets is kept literally and any
// other character passes through unchanged.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				layout.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			layout.WriteByte(format[i])
			i++
		}
	}

	return layout.String(), nil
}

// Format renders t with a token format or preset name.
// An empty format falls back to DefaultDateFormat.
func Format(format string, t time.Time) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// Validate reports whether format (or preset name) can be rendered.
func Validate(format string) error {
	_, err := Format(format, time.Time{})
	return err
}
