// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-simdoc/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("CI") != "true" {
		hints = append(hints, "set CI=true to launch Chrome without its sandbox")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the page timeout.
func ForTimeout() string {
	return format("for heavy pages, raise pdf.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/simdoc.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-simdoc") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForSourceNotFound returns a hint for a missing content directory.
func ForSourceNotFound() string {
	return format("pass the content directory as argument or set sources in the config file")
}

// ForUnknownExtension lists the extensions that can be enabled.
func ForUnknownExtension(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available extensions: " + strings.Join(available, ", "))
}

// ForRequirement returns a hint for extensions needing others.
func ForRequirement() string {
	return format("add the required extension to the extensions list, or remove the list to enable every extension")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
