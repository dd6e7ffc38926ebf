package simdoc

import (
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/alert"
	"github.com/alnah/go-simdoc/internal/extensions/appsyntax"
	"github.com/alnah/go-simdoc/internal/extensions/autolink"
	"github.com/alnah/go-simdoc/internal/extensions/command"
	"github.com/alnah/go-simdoc/internal/extensions/commonmark"
	"github.com/alnah/go-simdoc/internal/extensions/contents"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/floats"
	"github.com/alnah/go-simdoc/internal/extensions/listing"
)

// Factories returns the factories of every built-in extension.
func Factories() []ext.Factory {
	return []ext.Factory{
		core.Factory(),
		command.Factory(),
		floats.Factory(),
		listing.Factory(),
		alert.Factory(),
		autolink.Factory(),
		appsyntax.Factory(),
		commonmark.Factory(),
		contents.Factory(),
	}
}

// DefaultRegistry returns a registry of the built-in extensions.
func DefaultRegistry() *ext.Registry {
	r, err := ext.NewRegistry(Factories()...)
	if err != nil {
		// Built-in names are distinct.
		panic(err)
	}
	return r
}

// DefaultExtensions enables every built-in extension with default options.
func DefaultExtensions() []Extension {
	fs := Factories()
	out := make([]Extension, 0, len(fs))
	for _, f := range fs {
		out = append(out, Extension{Name: f.Name})
	}
	return out
}
