package main

// Notes:
// - runMain: we test dispatch and exit codes end to end with an in-memory
//   Environment. Command behavior is covered in commands_test.go.
// - main() itself is not tested (os.Exit, godotenv and maxprocs side effects).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Main entry point exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		stdin        string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"assetdoc"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: assetdoc"},
		},
		{
			name:         "version command exits 0",
			args:         []string{"assetdoc", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"assetdoc dev"},
		},
		{
			name:         "help command exits 0",
			args:         []string{"assetdoc", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: assetdoc", "Commands:"},
		},
		{
			name:         "help set shows set help",
			args:         []string{"assetdoc", "help", "set"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: assetdoc set"},
		},
		{
			name:         "command -h shows its help",
			args:         []string{"assetdoc", "render", "-h"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: assetdoc render"},
		},
		{
			name:         "unknown command exits with ExitUsage",
			args:         []string{"assetdoc", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown", "Usage: assetdoc"},
		},
		{
			name:         "bad flag exits with ExitUsage",
			args:         []string{"assetdoc", "parse", "--nope"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid usage"},
		},
		{
			name:         "missing file exits with ExitIO",
			args:         []string{"assetdoc", "parse", "nonexistent.md"},
			wantCode:     ExitIO,
			wantInStderr: []string{"failed to read input"},
		},
		{
			name:         "malformed section exits with ExitData",
			args:         []string{"assetdoc", "validate"},
			stdin:        testDoc + brokenSection,
			wantCode:     ExitData,
			wantInStderr: []string{"document has problems: 1 found"},
		},
		{
			name:         "parse from stdin exits 0",
			args:         []string{"assetdoc", "parse"},
			stdin:        testDoc,
			wantCode:     ExitSuccess,
			wantInStdout: []string{`"type": "key_numbers"`},
		},
		{
			name:         "unknown style shows available styles",
			args:         []string{"assetdoc", "render", "--style", "neon"},
			stdin:        testDoc,
			wantCode:     ExitUsage,
			wantInStderr: []string{"hint: available: default, print"},
		},
		{
			name:         "missing config exits with ExitUsage",
			args:         []string{"assetdoc", "generate", "-c", "no-such-config"},
			stdin:        "[]",
			wantCode:     ExitUsage,
			wantInStderr: []string{"config file not found", "hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.stdin)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, env.stderr)
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, env.stdout)
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(env.stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, env.stderr)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Set - End to end edit of a file
// ---------------------------------------------------------------------------

func TestRunMain_Set(t *testing.T) {
	t.Parallel()

	path := writeTempDoc(t, testDoc)
	env := newTestEnv("")
	code := runMain([]string{"assetdoc", "set", path, "-q", "--index", "1", "--path", "remote", "--shape", "boolean", "--checked"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, env.stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet set printed %q", env.stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"remote": true`) {
		t.Errorf("document missing boolean field:\n%s", data)
	}
}

// ---------------------------------------------------------------------------
// TestIsVerbose
// ---------------------------------------------------------------------------

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"assetdoc", "serve", "-v"}, true},
		{[]string{"assetdoc", "serve", "--verbose"}, true},
		{[]string{"assetdoc", "serve"}, false},
		{[]string{"assetdoc", "set", "--value", "verbose"}, false},
	}

	for _, tt := range tests {
		if got := isVerbose(tt.args); got != tt.want {
			t.Errorf("isVerbose(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
