// Package autolink resolves links to other pages of the build:
//
//	[Install guide](install.md)    unique match on the page tree
//	[](getting_started/install.md) text filled from the target page title
//	[](#options)                   text filled from the heading on this page
//	[](install.md#linux)           text filled from the heading on that page
//
// Targets are found relative to the linking page first, then by unique
// suffix match. A target matching several pages is a render error naming
// every candidate.
package autolink

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Name is the extension name.
const Name = "autolink"

// ErrUnresolved marks a link whose target page or heading does not exist.
var ErrUnresolved = errors.New("unresolved link")

// AutoLink is a link to a page of the build, a heading, or both.
var AutoLink = tokens.NewKind("AutoLink", tokens.Str("page", ""), tokens.Str("anchor", ""))

func init() {
	tokens.MarkInline(AutoLink)
}

var pattern = grammar.Regex(`\[(?P<inline>[^\]\n]*)\]\((?P<page>[^)\s#]+\.md)?(?:#(?P<anchor>[^)\s]+))?(?P<settings>[^)\n]*)\)`)

// Extension adds the AutoLink grammar entry before core links.
type Extension struct {
	ext.Base
	ctx *ext.Context
}

// New returns the autolink extension.
func New() *Extension {
	return &Extension{Base: ext.Base{ExtName: Name, ExtRequires: []string{core.Name}}}
}

// Factory registers the extension for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name: Name,
		New:  func(settings.Values) (ext.Extension, error) { return New(), nil },
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, r *reader.Reader, rd render.Renderer) error {
	e.ctx = ctx
	if err := r.AddInline("AutoLink", grammar.Func(e.match), reader.ComponentFunc(create), "<Link"); err != nil {
		return err
	}
	return rd.Add(AutoLink, component{ctx: ctx})
}

// match accepts only links with a local page or an anchor; anything else
// is left to the core link. Inline commands ([!name](...)) are never links.
func (e *Extension) match(text string, pos int) (*grammar.Match, bool) {
	if strings.HasPrefix(text[pos:], "[!") {
		return nil, false
	}
	m, ok := pattern.Match(text, pos)
	if !ok || (!m.Has("page") && !m.Has("anchor")) || strings.Contains(m.Group("page"), "://") {
		return nil, false
	}
	return m, true
}

func create(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	props := tokens.Props{"page": m.Group("page"), "anchor": m.Group("anchor")}
	if s := strings.TrimSpace(m.Group("settings")); s != "" {
		vals, err := settings.Common.Parse(s)
		if err != nil {
			return nil, err
		}
		for k, v := range vals.Attributes() {
			props[k] = v
		}
	}
	return AutoLink.New(parent, props)
}

type component struct {
	ctx *ext.Context
}

// target is a resolved link.
type target struct {
	href string
	text string // empty when the link has its own text
}

func (c component) resolve(tok *tokens.Token, page *pages.Page) (target, error) {
	name, anchor := tok.String("page"), tok.String("anchor")
	fill := len(tok.Children()) == 0

	if name == "" {
		t := target{href: "#" + anchor}
		if fill {
			h, ok := heading(tok.Root(), anchor)
			if !ok {
				return t, fmt.Errorf("%w: no heading #%s on this page", ErrUnresolved, anchor)
			}
			t.text = h.Text()
		}
		return t, nil
	}

	if page == nil || c.ctx.Tree == nil {
		return target{}, fmt.Errorf("%w: %s needs a page tree", ErrUnresolved, name)
	}
	node, err := c.ctx.Tree.Resolve(page, name)
	if err != nil {
		return target{}, fmt.Errorf("link %s: %w", name, err)
	}
	other, ok := node.(*pages.Page)
	if !ok {
		return target{}, fmt.Errorf("%w: %s is not a page", ErrUnresolved, node.Local())
	}
	t := target{href: pages.RelativeTo(other, page, render.ExtensionFor(c.ctx.Renderer))}
	if anchor != "" {
		t.href += "#" + anchor
	}
	if !fill && anchor == "" {
		return t, nil
	}
	if c.ctx.AST == nil {
		return t, fmt.Errorf("%w: cannot read %s", ErrUnresolved, other.Local())
	}
	ast, err := c.ctx.AST(other)
	if err != nil {
		return t, err
	}
	h, ok := heading(ast, anchor)
	if !ok {
		if anchor != "" {
			return t, fmt.Errorf("%w: no heading #%s in %s", ErrUnresolved, anchor, other.Local())
		}
		t.text = other.Local()
		return t, nil
	}
	if fill {
		t.text = h.Text()
	}
	return t, nil
}

// heading finds the heading with id under root, or the first heading when
// id is empty.
func heading(root *tokens.Token, id string) (*tokens.Token, bool) {
	for _, h := range root.Find(core.Heading) {
		if id == "" || h.String("id") == id {
			return h, true
		}
	}
	return nil, false
}

func (c component) RenderHTML(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	t, err := c.resolve(tok, page)
	if err != nil {
		return nil, err
	}
	a := dom.Element(parent, "a", "href", t.href, "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	if t.text != "" {
		dom.Text(a, t.text)
	}
	return a, nil
}

func (c component) RenderLatex(parent *latex.Node, tok *tokens.Token, page *pages.Page) (*latex.Node, error) {
	t, err := c.resolve(tok, page)
	if err != nil {
		return nil, err
	}
	var cmd *latex.Node
	if tok.String("page") == "" {
		cmd = latex.Command(parent, "hyperref")
		cmd.Optional = tok.String("anchor")
	} else {
		cmd = latex.Command(parent, "href", core.EscapeURL(t.href))
	}
	if t.text != "" {
		latex.String(cmd, t.text)
	}
	return cmd, nil
}
