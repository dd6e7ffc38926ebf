package main

import (
	"errors"

	simdoc "github.com/alnah/go-simdoc"
	"github.com/alnah/go-simdoc/internal/config"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/hints"
	"github.com/alnah/go-simdoc/internal/pdf"
)

// defaultConfigName is the config looked up when a hint suggests creating one.
const defaultConfigName = "simdoc"

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error) string {
	switch {
	case errors.Is(err, pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, pdf.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, ext.ErrUnknownExtension):
		return hints.ForUnknownExtension(simdoc.DefaultRegistry().Names())
	case errors.Is(err, ext.ErrMissingRequirement):
		return hints.ForRequirement()
	case errors.Is(err, simdoc.ErrNoSources), errors.Is(err, simdoc.ErrInvalidSource):
		return hints.ForSourceNotFound()
	}
	return ""
}
