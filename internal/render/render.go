// Package render converts token trees into output documents.
//
// A renderer owns a binding table from token kind to render function. The
// function for a component is found by probing it for the renderer's
// interface (HTMLComponent, MaterializeComponent, LatexComponent); the
// materialize renderer falls back to HTMLComponent, and only one level.
//
// Processing walks the tree depth-first in pre-order. A bound function builds
// output beneath the parent node it is given and returns the node the token's
// children attach to, or nil to leave the parent unchanged. Unbound kinds
// pass through: their children are still rendered.
//
// A render function that fails is contained. Its partial output is removed,
// the failure is logged and recorded, and when the renderer has a binding for
// tokens.Exception a synthesized Exception token is rendered in its place.
// Without that binding the page fails with ErrRenderFailed.
package render

import (
	"fmt"
	"regexp"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/logging"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Renderer names.
const (
	HTML        = "html"
	Materialize = "materialize"
	Latex       = "latex"
)

// Renderer is the format-independent surface used by extensions and the
// translator.
type Renderer interface {
	// Name returns the renderer name.
	Name() string
	// Extension returns the output file extension, with the dot.
	Extension() string
	// Add binds kind to component. Binding a kind twice fails with
	// ErrDuplicateBinding.
	Add(kind *tokens.Kind, component any) error
	// Bound reports whether kind has a render function.
	Bound(kind *tokens.Kind) bool
	// Render converts the tree under root to a complete output document.
	Render(root *tokens.Token, page *pages.Page) (string, error)
	// OnReinit registers a hook run by Reinit.
	OnReinit(fn func())
	// Reinit resets per-render state such as float numbering.
	Reinit()
}

// Options configure a renderer.
type Options struct {
	Log         zerolog.Logger
	Diagnostics *diag.Collector
	// Collapsible configures the section pass of the HTML renderers.
	Collapsible Collapsible
	// Assets loads page templates and styles.
	Assets TemplateLoader
}

// TemplateLoader is the part of the asset resolver renderers use.
type TemplateLoader interface {
	LoadTemplate(name string) (string, error)
	LoadStyle(name string) (string, error)
}

// New returns the renderer named name.
func New(name string, opts Options) (Renderer, error) {
	switch name {
	case HTML:
		return NewHTML(opts)
	case Materialize:
		return NewMaterialize(opts)
	case Latex:
		return NewLatex(opts)
	}
	return nil, fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownRenderer, name, HTML, Materialize, Latex)
}

// ExtensionFor returns the output extension of the renderer named name.
func ExtensionFor(name string) string {
	if name == Latex {
		return ".tex"
	}
	return ".html"
}

// Func is a bound render function for output node type N.
type Func[N comparable] func(parent N, tok *tokens.Token, page *pages.Page) (N, error)

// engine is the binding table and walker shared by every renderer.
type engine[N comparable] struct {
	name     string
	funcs    map[*tokens.Kind]Func[N]
	resolve  func(component any) (Func[N], bool)
	mark     func(N) int
	truncate func(N, int)
	hooks    []func()
	log      zerolog.Logger
	diags    *diag.Collector
}

func newEngine[N comparable](name string, opts Options, resolve func(any) (Func[N], bool), mark func(N) int, truncate func(N, int)) engine[N] {
	diags := opts.Diagnostics
	if diags == nil {
		diags = diag.NewCollector()
	}
	return engine[N]{
		name:     name,
		funcs:    make(map[*tokens.Kind]Func[N]),
		resolve:  resolve,
		mark:     mark,
		truncate: truncate,
		log:      opts.Log.With().Str("renderer", name).Logger(),
		diags:    diags,
	}
}

func (e *engine[N]) Name() string { return e.name }

func (e *engine[N]) Add(kind *tokens.Kind, component any) error {
	if _, dup := e.funcs[kind]; dup {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateBinding, kind.Name(), e.name)
	}
	fn, ok := e.resolve(component)
	if !ok {
		return fmt.Errorf("%w: %T for %s on %s", ErrUnsupportedComponent, component, kind.Name(), e.name)
	}
	e.funcs[kind] = fn
	return nil
}

func (e *engine[N]) Bound(kind *tokens.Kind) bool {
	_, ok := e.funcs[kind]
	return ok
}

func (e *engine[N]) OnReinit(fn func()) { e.hooks = append(e.hooks, fn) }

func (e *engine[N]) Reinit() {
	for _, fn := range e.hooks {
		fn()
	}
}

// process renders tok beneath parent, then its children beneath the anchor
// the bound function returned.
func (e *engine[N]) process(parent N, tok *tokens.Token, page *pages.Page) error {
	anchor := parent
	if fn, ok := e.funcs[tok.Kind()]; ok {
		mark := e.mark(parent)
		out, trace, err := e.call(fn, parent, tok, page)
		if err != nil {
			e.truncate(parent, mark)
			return e.contain(parent, tok, page, err, trace)
		}
		var zero N
		if out != zero {
			anchor = out
		}
	}
	for _, c := range tok.Children() {
		if err := e.process(anchor, c, page); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine[N]) call(fn Func[N], parent N, tok *tokens.Token, page *pages.Page) (out N, trace string, err error) {
	defer func() {
		if r := recover(); r != nil {
			trace = string(debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	out, err = fn(parent, tok, page)
	return out, "", err
}

func (e *engine[N]) contain(parent N, tok *tokens.Token, page *pages.Page, cause error, trace string) error {
	d := diag.Diagnostic{
		Level:     diag.Error,
		Stage:     diag.StageRender,
		Page:      pageName(page),
		Line:      tok.Line(),
		Construct: construct(tok),
		Cause:     fmt.Sprintf("%s: %v", tok.Name(), cause),
	}
	logging.Report(e.log.With().Str("kind", tok.Name()).Logger(), d)
	e.diags.Add(d)

	exFn, ok := e.funcs[tokens.Exception]
	if !ok || tok.Is(tokens.Exception) {
		return fmt.Errorf("%w: %s at %s:%d: %v", ErrRenderFailed, tok.Name(), pageName(page), tok.Line(), cause)
	}
	ex := tokens.NewException(tok, cause.Error(), trace)
	if _, _, err := e.call(exFn, parent, ex, page); err != nil {
		return fmt.Errorf("%w: exception render: %v", ErrRenderFailed, err)
	}
	return nil
}

func construct(tok *tokens.Token) string {
	if info := tok.Info(); info != nil && info.Raw != "" {
		return info.Raw
	}
	return tok.Name()
}

func pageName(p *pages.Page) string {
	if p == nil {
		return "<memory>"
	}
	return p.Local()
}

var blankRuns = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// CollapseBlankLines replaces runs of two or more blank lines with one.
func CollapseBlankLines(s string) string {
	return blankRuns.ReplaceAllString(s, "\n\n")
}
