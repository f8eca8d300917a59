package assetdoc

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestValidateField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   Field
		rule    FieldRule
		wantMsg string // "" means valid
	}{
		{"no rule", Field{Value: ""}, FieldRule{}, ""},
		{"required empty", Field{Value: ""}, FieldRule{Required: true}, "This field is required"},
		{"required blank", Field{Value: "   "}, FieldRule{Required: true}, "This field is required"},
		{"required present", Field{Value: "x"}, FieldRule{Required: true}, ""},
		{"too short", Field{Value: "ab"}, FieldRule{MinLength: 3}, "Minimum length is 3 characters"},
		{"min counts runes", Field{Value: "été"}, FieldRule{MinLength: 3}, ""},
		{"optional empty skips min", Field{Value: ""}, FieldRule{MinLength: 3}, ""},
		{"too long", Field{Value: "abcd"}, FieldRule{MaxLength: 3}, "Maximum length is 3 characters"},
		{"pattern default message", Field{Value: "abc"}, FieldRule{Pattern: `^\d+$`}, "Invalid format"},
		{"pattern custom message", Field{Value: "abc"}, FieldRule{Pattern: `^\d+$`, PatternError: "Digits only"}, "Digits only"},
		{"pattern match", Field{Value: "2016"}, FieldRule{Pattern: `^\d+$`}, ""},
		{"email ok", Field{Value: "team@qonto.com"}, FieldRule{Kind: KindEmail}, ""},
		{"email bad", Field{Value: "team@qonto"}, FieldRule{Kind: KindEmail}, "Invalid email address"},
		{"url ok", Field{Value: "https://qonto.com/en"}, FieldRule{Kind: KindURL}, ""},
		{"mailto url ok", Field{Value: "mailto:team@qonto.com"}, FieldRule{Kind: KindURL}, ""},
		{"url relative", Field{Value: "/about"}, FieldRule{Kind: KindURL}, "Invalid URL"},
		{"optional empty url", Field{Value: ""}, FieldRule{Kind: KindURL}, ""},
		{"first failure wins", Field{Value: ""}, FieldRule{Required: true, MinLength: 5}, "This field is required"},
		{"boolean required unchecked", Field{Shape: ShapeBoolean}, FieldRule{Required: true}, "This field is required"},
		{"boolean ignores length", Field{Shape: ShapeBoolean, Checked: true}, FieldRule{MinLength: 10}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateField(tt.field, tt.rule)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("ValidateField() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("ValidateField() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateField_BadRule(t *testing.T) {
	t.Parallel()

	if err := ValidateField(Field{Value: "x"}, FieldRule{Pattern: "("}); !errors.Is(err, ErrFieldInvalid) {
		t.Errorf("bad pattern error = %v, want ErrFieldInvalid", err)
	}
	if err := ValidateField(Field{Value: "x"}, FieldRule{Kind: "phone"}); !errors.Is(err, ErrFieldInvalid) {
		t.Errorf("unknown kind error = %v, want ErrFieldInvalid", err)
	}
	if err := ValidateField(Field{Value: "x", Shape: "xml"}, FieldRule{}); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("unknown shape error = %v, want ErrUnknownShape", err)
	}
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	rules := map[string]FieldRule{
		"tagline":         {Required: true},
		"contact":         {Kind: KindEmail},
		"leaders.0.quote": {MaxLength: 5},
	}

	t.Run("all valid", func(t *testing.T) {
		t.Parallel()

		err := ValidateFields([]Field{
			{Path: "tagline", Value: "Banking"},
			{Path: "contact", Value: ""},
			{Path: "unruled", Value: ""},
		}, rules)
		if err != nil {
			t.Errorf("ValidateFields() error = %v", err)
		}
	})

	t.Run("no rules", func(t *testing.T) {
		t.Parallel()

		if err := ValidateFields([]Field{{Path: "a", Value: ""}}, nil); err != nil {
			t.Errorf("ValidateFields(nil rules) error = %v", err)
		}
	})

	t.Run("failures keyed by path", func(t *testing.T) {
		t.Parallel()

		err := ValidateFields([]Field{
			{Path: "tagline", Value: ""},
			{Path: "leaders.0.quote", Value: "too long"},
			{Path: "leaders.0.quote", Value: "also much too long"},
			{Path: "contact", Value: "ok@example.com"},
		}, rules)
		if !errors.Is(err, ErrFieldInvalid) {
			t.Fatalf("ValidateFields() error = %v, want ErrFieldInvalid", err)
		}
		var errs validation.Errors
		if !errors.As(err, &errs) {
			t.Fatalf("ValidateFields() error %T does not carry validation.Errors", err)
		}
		if len(errs) != 2 {
			t.Errorf("got %d failures, want 2: %v", len(errs), errs)
		}
		if errs["tagline"].Error() != "This field is required" {
			t.Errorf("tagline = %v", errs["tagline"])
		}
		if errs["leaders.0.quote"].Error() != "Maximum length is 5 characters" {
			t.Errorf("quote = %v", errs["leaders.0.quote"])
		}
	})

	t.Run("malformed rule aborts", func(t *testing.T) {
		t.Parallel()

		err := ValidateFields([]Field{{Path: "a", Value: "x"}}, map[string]FieldRule{"a": {Pattern: "["}})
		if !errors.Is(err, ErrFieldInvalid) {
			t.Errorf("ValidateFields() error = %v, want ErrFieldInvalid", err)
		}
		var errs validation.Errors
		if errors.As(err, &errs) {
			t.Error("malformed rule should not be reported as a field failure")
		}
	})
}
