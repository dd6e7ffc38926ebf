// Package ext defines the extension contract and composes extensions into a
// configured reader and renderer.
//
// An extension adds grammar components and commands to the reader and
// render bindings to the renderer. It may require other extensions by name;
// composition orders extensions so requirements always extend first, keeps
// the caller's order among independent extensions, and rejects cycles before
// any page is read.
package ext

import (
	"context"

	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Extension is a named plugin.
type Extension interface {
	Name() string
	// Requires names the extensions that must extend before this one.
	Requires() []string
	// Extend registers components, commands and render bindings. It is
	// called exactly once per translator.
	Extend(ctx *Context, r *reader.Reader, rd render.Renderer) error
}

// PageInitializer is called once per page before it is tokenized.
type PageInitializer interface {
	InitPage(page *pages.Page)
}

// PreTokenizer runs on the empty root before a page is tokenized.
type PreTokenizer interface {
	PreTokenize(root *tokens.Token, page *pages.Page) error
}

// PostTokenizer runs once a page's AST is complete, before it is cached.
type PostTokenizer interface {
	PostTokenize(root *tokens.Token, page *pages.Page) error
}

// Reinitializer resets per-render state.
type Reinitializer interface {
	Reinit()
}

// PostExecutor runs after every page has been written.
type PostExecutor interface {
	PostExecute(ctx context.Context) error
}

// Base provides the Name and Requires methods for embedding.
type Base struct {
	ExtName     string
	ExtRequires []string
}

// Name implements Extension.
func (b Base) Name() string { return b.ExtName }

// Requires implements Extension.
func (b Base) Requires() []string { return b.ExtRequires }
