package simdoc

import (
	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/translator"
)

// Renderer names.
const (
	RendererHTML        = render.HTML
	RendererMaterialize = render.Materialize
	RendererLatex       = render.Latex
)

// Source is a content directory. Its files appear in the page tree under
// Prefix, or at the root when Prefix is empty.
type Source struct {
	Dir    string
	Prefix string
}

// Extension enables one extension by name with its options.
type Extension struct {
	Name    string
	Options map[string]any
}

// Collapsible holds the section state of each heading level, h1 first:
// "none", "open" or "close".
type Collapsible = render.Collapsible

// Report summarizes a build.
type Report = translator.Report

// PageResult is the outcome of one page.
type PageResult = translator.PageResult

// Diagnostic is one recorded tokenize or render problem.
type Diagnostic = diag.Diagnostic

// Sink receives build outputs.
type Sink = translator.Sink
