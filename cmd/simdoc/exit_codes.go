package main

import (
	"errors"
	"os"

	simdoc "github.com/alnah/go-simdoc"
	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/config"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/pdf"
	"github.com/alnah/go-simdoc/internal/render"
)

// Exit codes for the simdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Build finished without errors
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or extension setup
	ExitIO      = 3 // Source not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitBuild   = 5 // Build finished but recorded errors
)

// Sentinel errors of the CLI.
var (
	ErrUsage = errors.New("invalid usage")
	ErrBuild = errors.New("build recorded errors")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrBuild) {
		return ExitBuild
	}

	// Browser errors (exit 4)
	if errors.Is(err, pdf.ErrBrowserConnect) ||
		errors.Is(err, pdf.ErrPageCreate) ||
		errors.Is(err, pdf.ErrPageLoad) ||
		errors.Is(err, pdf.ErrGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, simdoc.ErrInvalidSource) ||
		errors.Is(err, simdoc.ErrNoSources) ||
		errors.Is(err, pages.ErrDuplicate) {
		return ExitIO
	}

	// Usage/config/composition errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrNilData) ||
		errors.Is(err, simdoc.ErrInvalidAssetPath) ||
		errors.Is(err, simdoc.ErrPDFRenderer) ||
		errors.Is(err, ext.ErrCyclicRequires) ||
		errors.Is(err, ext.ErrMissingRequirement) ||
		errors.Is(err, ext.ErrDuplicateExtension) ||
		errors.Is(err, ext.ErrUnknownExtension) ||
		errors.Is(err, ext.ErrInvalidOption) ||
		errors.Is(err, command.ErrDuplicateCommand) ||
		errors.Is(err, render.ErrUnknownRenderer) ||
		errors.Is(err, render.ErrDuplicateBinding) ||
		errors.Is(err, render.ErrTemplate) {
		return ExitUsage
	}

	return ExitGeneral
}
