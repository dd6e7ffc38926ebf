// Package translator coordinates a build: it composes the extensions once,
// tokenizes and renders every page of the tree on a bounded worker pool,
// and produces the aggregate artifacts once all pages are done.
package translator

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Sentinel errors.
var (
	ErrNoTree   = errors.New("no page tree")
	ErrHook     = errors.New("extension hook failed")
	ErrNotAPage = errors.New("not a page")
)

// Pool sizing.
const (
	MinWorkers = 1
	MaxWorkers = 8
	cpuDivisor = 2
)

// ResolveWorkers returns n when positive, otherwise half of GOMAXPROCS
// clamped to [MinWorkers, MaxWorkers].
func ResolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Options configure a Translator.
type Options struct {
	Log zerolog.Logger
	// Renderer names the output format; html when empty.
	Renderer string
	// Workers bounds page parallelism; zero sizes the pool automatically.
	Workers     int
	Collapsible render.Collapsible
	Assets      render.TemplateLoader
}

// Translator owns the composed reader, renderer and extensions of a build.
// Its registries are read-only once New returns.
type Translator struct {
	tree     *pages.Tree
	reader   *reader.Reader
	renderer render.Renderer
	exts     []ext.Extension
	ctx      *ext.Context
	log      zerolog.Logger
	workers  int
	flight   singleflight.Group
}

// New composes exts against a fresh reader and the configured renderer.
// Any composition failure (a requires cycle, a missing requirement, a
// duplicate command or render binding) is returned before a page is read.
func New(tree *pages.Tree, exts []ext.Extension, opts Options) (*Translator, error) {
	if tree == nil {
		return nil, ErrNoTree
	}
	name := opts.Renderer
	if name == "" {
		name = render.HTML
	}
	ctx := ext.NewContext(opts.Log, tree, name)
	rd, err := render.New(name, render.Options{
		Log:         opts.Log,
		Diagnostics: ctx.Diagnostics,
		Collapsible: opts.Collapsible,
		Assets:      opts.Assets,
	})
	if err != nil {
		return nil, err
	}
	r := reader.New(opts.Log, ctx.Diagnostics)
	sorted, err := ext.Compose(ctx, r, rd, exts)
	if err != nil {
		return nil, err
	}
	t := &Translator{
		tree:     tree,
		reader:   r,
		renderer: rd,
		exts:     sorted,
		ctx:      ctx,
		log:      opts.Log.With().Str("component", "translator").Logger(),
		workers:  ResolveWorkers(opts.Workers),
	}
	ctx.AST = t.AST
	return t, nil
}

// Context returns the shared build context.
func (t *Translator) Context() *ext.Context { return t.ctx }

// Renderer returns the composed renderer.
func (t *Translator) Renderer() render.Renderer { return t.renderer }

// Reader returns the composed reader.
func (t *Translator) Reader() *reader.Reader { return t.reader }

// Extensions returns the extensions in initialization order.
func (t *Translator) Extensions() []ext.Extension {
	return append([]ext.Extension(nil), t.exts...)
}

// Diagnostics returns the build's diagnostic collector.
func (t *Translator) Diagnostics() *diag.Collector { return t.ctx.Diagnostics }

// AST returns the token tree of page, tokenizing it once per generation.
// Concurrent callers for the same page share a single tokenize.
func (t *Translator) AST(page *pages.Page) (*tokens.Token, error) {
	if ast, ok := page.CachedAST(); ok {
		return ast, nil
	}
	v, err, _ := t.flight.Do(page.Local(), func() (any, error) {
		if ast, ok := page.CachedAST(); ok {
			return ast, nil
		}
		ast, err := t.tokenize(page)
		if err != nil {
			return nil, err
		}
		page.StoreAST(ast)
		return ast, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*tokens.Token), nil
}

func (t *Translator) tokenize(page *pages.Page) (*tokens.Token, error) {
	root := tokens.NewRoot(page)
	for _, e := range t.exts {
		if h, ok := e.(ext.PreTokenizer); ok {
			if err := h.PreTokenize(root, page); err != nil {
				return nil, fmt.Errorf("%w: %s pre-tokenize %s: %v", ErrHook, e.Name(), page.Local(), err)
			}
		}
	}
	s := t.reader.Tokenize(root, page.Text(), page)
	for _, e := range t.exts {
		if h, ok := e.(ext.PostTokenizer); ok {
			if err := h.PostTokenize(root, page); err != nil {
				return nil, fmt.Errorf("%w: %s post-tokenize %s: %v", ErrHook, e.Name(), page.Local(), err)
			}
		}
	}
	t.log.Debug().Str("page", page.Local()).Int("errors", s.Errors()).Msg("page tokenized")
	return root, nil
}

// Tokenize scans text outside of any page, for tests and previews.
func (t *Translator) Tokenize(text string) *tokens.Token {
	root := tokens.NewRoot(nil)
	t.reader.Tokenize(root, text, nil)
	return root
}

// RenderPage renders the AST of page. Float numbering restarts for the
// page, so rendering a page twice yields the same output.
func (t *Translator) RenderPage(page *pages.Page) (string, error) {
	ast, err := t.AST(page)
	if err != nil {
		return "", err
	}
	t.ctx.Counters.ResetPage(page.Local())
	return t.renderer.Render(ast, page)
}

// Render renders a detached tree, such as one returned by Tokenize.
func (t *Translator) Render(root *tokens.Token) (string, error) {
	t.ctx.Counters.ResetPage("")
	return t.renderer.Render(root, nil)
}

// Reinit starts a new generation: cached ASTs, headings, counters and
// diagnostics are dropped and every Reinitializer runs.
func (t *Translator) Reinit() {
	for _, p := range t.tree.Pages() {
		p.ResetAST()
	}
	t.ctx.Headings.Reset()
	t.ctx.Diagnostics.Reset()
	t.renderer.Reinit()
}
