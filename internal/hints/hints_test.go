package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	got := ForConfigNotFound([]string{"simdoc.yaml", "/home/u/.config/go-simdoc/simdoc.yaml"})
	want := "\n  hint: use --config /path/to/simdoc.yaml or create /home/u/.config/go-simdoc/simdoc.yaml"
	if got != want {
		t.Errorf("ForConfigNotFound() = %q, want %q", got, want)
	}
	if got := ForConfigNotFound(nil); !strings.HasPrefix(got, "\n  hint: use --config") {
		t.Errorf("ForConfigNotFound(nil) = %q", got)
	}
}

func TestForUnknownExtension(t *testing.T) {
	t.Parallel()

	if got := ForUnknownExtension(nil); got != "" {
		t.Errorf("ForUnknownExtension(nil) = %q, want empty", got)
	}
	got := ForUnknownExtension([]string{"alert", "core"})
	if got != "\n  hint: available extensions: alert, core" {
		t.Errorf("ForUnknownExtension() = %q", got)
	}
}

func TestForBrowserConnect(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "")
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")

	orig := IsInContainer
	IsInContainer = func() bool { return true }
	t.Cleanup(func() { IsInContainer = orig })

	got := ForBrowserConnect()
	for _, want := range []string{"CI=true", "ROD_BROWSER_BIN"} {
		if !strings.Contains(got, want) {
			t.Errorf("ForBrowserConnect() = %q, missing %q", got, want)
		}
	}
}

func TestFormatHints_Empty(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}
