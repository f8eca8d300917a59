package main

// Notes:
// - parse*Flags: we test long and short forms, defaults, positional args
//   and that pflag errors become ErrUsage while -h stays flag.ErrHelp.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseCommonFlags
// ---------------------------------------------------------------------------

func TestParseCommonFlags(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f, args, err := parseCommonFlags("parse", []string{"-c", "work", "doc.md", "-q"}, &buf)
	if err != nil {
		t.Fatalf("parseCommonFlags() error = %v", err)
	}
	if diff := cmp.Diff(commonFlags{config: "work", quiet: true}, *f, cmp.AllowUnexported(commonFlags{})); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"doc.md"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestParseSetFlags
// ---------------------------------------------------------------------------

func TestParseSetFlags(t *testing.T) {
	t.Parallel()

	t.Run("short and long forms", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseSetFlags([]string{"data.md", "-i", "2", "--path", "stats.0.value", "--value", "a,b", "-s", "csv", "--strict", "-v"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseSetFlags() error = %v", err)
		}
		want := setFlags{
			common: commonFlags{verbose: true},
			index:  2,
			path:   "stats.0.value",
			value:  "a,b",
			shape:  "csv",
			strict: true,
		}
		if diff := cmp.Diff(want, *f, cmp.AllowUnexported(setFlags{}, commonFlags{})); diff != "" {
			t.Errorf("flags mismatch (-want +got):\n%s", diff)
		}
		if len(args) != 1 || args[0] != "data.md" {
			t.Errorf("args = %v, want [data.md]", args)
		}
	})

	t.Run("index defaults to -1", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseSetFlags(nil, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseSetFlags() error = %v", err)
		}
		if f.index != -1 {
			t.Errorf("index = %d, want -1", f.index)
		}
	})

	t.Run("non-numeric index", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseSetFlags([]string{"--index", "first"}, &bytes.Buffer{})
		if !errors.Is(err, ErrUsage) {
			t.Errorf("parseSetFlags() error = %v, want ErrUsage", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseRenderFlags / TestParseServeFlags
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseRenderFlags([]string{"-o", "out.html", "--style", "print", "data.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}
	if f.output != "out.html" || f.style != "print" {
		t.Errorf("flags = %+v", f)
	}
	if len(args) != 1 || args[0] != "data.md" {
		t.Errorf("args = %v, want [data.md]", args)
	}
}

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	f, _, err := parseServeFlags([]string{"-a", ":9000", "-d", "profile.md", "--storage", "memory", "--static", "web"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseServeFlags() error = %v", err)
	}
	want := serveFlags{addr: ":9000", document: "profile.md", storage: "memory", staticDir: "web"}
	if diff := cmp.Diff(want, *f, cmp.AllowUnexported(serveFlags{}, commonFlags{})); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestParseError - Help and usage errors
// ---------------------------------------------------------------------------

func TestParseError(t *testing.T) {
	t.Parallel()

	t.Run("help prints usage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _, err := parseServeFlags([]string{"--help"}, &buf)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("error = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(buf.String(), "Usage: assetdoc serve") {
			t.Errorf("usage not printed, got %q", buf.String())
		}
	})

	t.Run("unknown flag is a usage error", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseRenderFlags([]string{"--pdf"}, &bytes.Buffer{})
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})
}
