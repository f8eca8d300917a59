package assetdoc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field rule kinds checked on top of the generic constraints.
const (
	KindEmail = "email"
	KindURL   = "url"
)

// emailPattern is deliberately loose: something@something.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldRule constrains the raw value of an edited field before it is
// collected. Checks run in declaration order and stop at the first failure.
// Optional fields left empty pass every check but Required.
type FieldRule struct {
	Required     bool   `json:"required,omitempty" yaml:"required"`
	MinLength    int    `json:"minLength,omitempty" yaml:"minLength"`
	MaxLength    int    `json:"maxLength,omitempty" yaml:"maxLength"`
	Pattern      string `json:"pattern,omitempty" yaml:"pattern"`
	PatternError string `json:"patternError,omitempty" yaml:"patternError"`
	Kind         string `json:"kind,omitempty" yaml:"kind"` // "", "email" or "url"
}

// rules converts r to ozzo rules. A boolean field only honors Required.
func (r FieldRule) rules(shape Shape) ([]validation.Rule, error) {
	var out []validation.Rule
	if r.Required {
		out = append(out, validation.Required.
			ErrorObject(validation.NewError("assetdoc.field.required", "This field is required")))
	}
	if shape == ShapeBoolean {
		return out, nil
	}

	if r.MinLength > 0 {
		out = append(out, validation.RuneLength(r.MinLength, 0).
			ErrorObject(validation.NewError("assetdoc.field.min_length",
				fmt.Sprintf("Minimum length is %d characters", r.MinLength))))
	}
	if r.MaxLength > 0 {
		out = append(out, validation.RuneLength(0, r.MaxLength).
			ErrorObject(validation.NewError("assetdoc.field.max_length",
				fmt.Sprintf("Maximum length is %d characters", r.MaxLength))))
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrFieldInvalid, r.Pattern, err)
		}
		msg := r.PatternError
		if msg == "" {
			msg = "Invalid format"
		}
		out = append(out, validation.Match(re).
			ErrorObject(validation.NewError("assetdoc.field.pattern", msg)))
	}

	switch r.Kind {
	case "":
	case KindEmail:
		out = append(out, validation.Match(emailPattern).
			ErrorObject(validation.NewError("assetdoc.field.email", "Invalid email address")))
	case KindURL:
		out = append(out, validation.By(absoluteURL))
	default:
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrFieldInvalid, r.Kind)
	}
	return out, nil
}

// absoluteURL accepts values that parse as a URL with a scheme and a host
// (or an opaque part, as in mailto:).
func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return validation.NewError("assetdoc.field.url", "Invalid URL")
	}
	return nil
}

// ValidateField checks one field against rule. Text values are trimmed
// first, so a blank value does not satisfy Required.
func ValidateField(f Field, rule FieldRule) error {
	shape, err := ParseShape(string(f.Shape))
	if err != nil {
		return err
	}
	rs, err := rule.rules(shape)
	if err != nil {
		return err
	}
	if shape == ShapeBoolean {
		return validation.Validate(f.Checked, rs...)
	}
	return validation.Validate(strings.TrimSpace(f.Value), rs...)
}

// ValidateFields checks every field whose path has a rule. Failures are
// collected into validation.Errors keyed by path, wrapped in
// ErrFieldInvalid. When a path appears twice the first failure is kept.
// A malformed rule aborts with ErrFieldInvalid immediately.
func ValidateFields(fields []Field, rules map[string]FieldRule) error {
	if len(rules) == 0 {
		return nil
	}
	errs := validation.Errors{}
	for _, f := range fields {
		rule, ok := rules[f.Path]
		if !ok {
			continue
		}
		if err := ValidateField(f, rule); err != nil {
			if _, isRuleErr := err.(validation.Error); !isRuleErr {
				return err
			}
			if _, seen := errs[f.Path]; !seen {
				errs[f.Path] = err
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrFieldInvalid, errs)
	}
	return nil
}
