package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	simdoc "github.com/alnah/go-simdoc"
	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/config"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/pdf"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"build errors", ErrBuild, ExitBuild},
		{"wrapped build errors", fmt.Errorf("%w: 3 errors", ErrBuild), ExitBuild},

		{"browser connect", pdf.ErrBrowserConnect, ExitBrowser},
		{"page load", fmt.Errorf("printing a.html: %w", pdf.ErrPageLoad), ExitBrowser},

		{"file not exist", os.ErrNotExist, ExitIO},
		{"invalid source", simdoc.ErrInvalidSource, ExitIO},

		{"usage", ErrUsage, ExitUsage},
		{"config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"requires cycle", ext.ErrCyclicRequires, ExitUsage},
		{"unknown extension", ext.ErrUnknownExtension, ExitUsage},
		{"duplicate command", command.ErrDuplicateCommand, ExitUsage},
		{"pdf renderer", simdoc.ErrPDFRenderer, ExitUsage},

		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser, ExitBuild}
	seen := make(map[int]bool)
	for _, c := range codes {
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", c)
		}
		if seen[c] {
			t.Errorf("exit code %d defined twice", c)
		}
		seen[c] = true
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown extension", fmt.Errorf("wrap: %w", ext.ErrUnknownExtension), "available extensions:"},
		{"missing requirement", ext.ErrMissingRequirement, "required extension"},
		{"no sources", simdoc.ErrNoSources, "content directory"},
		{"page load", pdf.ErrPageLoad, "pdf.timeout"},
		{"config not found", config.ErrConfigNotFound, "--config"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
