// Package hints turns common assetdoc failures into a next step for the
// user. Every hint renders as "\n  hint: <text>" so it can follow the
// error line directly.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-assetdoc/internal/fileutil"
)

const prefix = "\n  hint: "

// IsInContainer reports whether assetdoc runs inside Docker. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForObjectStore explains S3 failures: missing credentials, or a loopback
// endpoint that cannot reach the host from inside a container.
func ForObjectStore(endpoint string) string {
	var steps []string
	if os.Getenv("ASSETDOC_S3_ACCESS_KEY") == "" || os.Getenv("ASSETDOC_S3_SECRET_KEY") == "" {
		steps = append(steps, "set ASSETDOC_S3_ACCESS_KEY and ASSETDOC_S3_SECRET_KEY")
	}
	if IsInContainer() && isLoopback(endpoint) {
		steps = append(steps, "inside a container, point ASSETDOC_S3_ENDPOINT at the host or service name")
	}
	return hint(steps...)
}

func isLoopback(endpoint string) bool {
	for _, host := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if strings.HasPrefix(endpoint, host) {
			return true
		}
	}
	return false
}

// ForConfigNotFound offers --config, or the per-user config location when it
// was part of the search.
func ForConfigNotFound(searched []string) string {
	text := "use --config /path/to/file.yaml"
	if user := userConfigPath(searched); user != "" {
		text += " or create " + user
	}
	return hint(text)
}

func userConfigPath(searched []string) string {
	for _, p := range searched {
		if strings.Contains(p, ".config/go-assetdoc") {
			return p
		}
	}
	return ""
}

// ForDocumentNotFound shows how to seed an empty document at path.
func ForDocumentNotFound(path string) string {
	return hint("create it with: assetdoc generate empty.json > " + path)
}

// ForMalformedSection names the usual reasons a JSON block fails to parse.
func ForMalformedSection() string {
	return hint("check for trailing commas and unescaped quotes in the ```json block")
}

// ForStyleNotFound lists the preview styles that do exist.
func ForStyleNotFound(available []string) string {
	return listing("available: ", available)
}

// ForUnknownAssetType lists the types that have default data.
func ForUnknownAssetType(known []string) string {
	return listing("known types: ", known)
}

func listing(label string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return hint(label + strings.Join(names, ", "))
}

// hint joins steps with "; " behind the hint prefix. No steps, no hint.
func hint(steps ...string) string {
	if len(steps) == 0 {
		return ""
	}
	return prefix + strings.Join(steps, "; ")
}
