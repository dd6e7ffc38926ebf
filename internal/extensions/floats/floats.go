// Package floats provides numbered floats: a container with an optional
// caption whose number is assigned at render time, and the [!ref](id)
// command that refers to one.
//
// Numbers come from the build's shared counters keyed by page and prefix,
// so they restart on every page and after a renderer reinit.
package floats

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// Name is the extension name.
const Name = "floats"

// Token kinds.
var (
	Float          = tokens.NewKind("Float", tokens.Str("prefix", ""))
	Caption        = tokens.NewKind("Caption", tokens.Str("prefix", ""))
	FloatReference = tokens.NewKind("FloatReference", tokens.Required(tokens.Str("target", "")))
)

func init() {
	tokens.MarkInline(Caption, FloatReference)
}

// New appends a Float to parent. A non-empty caption creates a Caption
// child whose text is scheduled for inline tokenizing; the caption is only
// numbered when id is set.
func New(parent *tokens.Token, s *reader.Scanner, line int, id, prefix, caption string) (*tokens.Token, error) {
	f, err := Float.New(parent, tokens.Props{"id": id, "prefix": prefix})
	if err != nil {
		return nil, err
	}
	if caption != "" {
		c, err := Caption.New(f, tokens.Props{"prefix": prefix})
		if err != nil {
			return nil, err
		}
		s.Inline(c, caption, line)
	}
	return f, nil
}

// Extension registers the float bindings and the ref command.
type Extension struct {
	ext.Base
	ctx *ext.Context
}

// NewExtension returns the floats extension.
func NewExtension() *Extension {
	return &Extension{Base: ext.Base{ExtName: Name, ExtRequires: []string{cmdext.Name}}}
}

// Factory registers the extension for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name: Name,
		New:  func(settings.Values) (ext.Extension, error) { return NewExtension(), nil },
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, _ *reader.Reader, rd render.Renderer) error {
	e.ctx = ctx
	if err := ctx.Commands.Add(refCommand{}); err != nil {
		return err
	}
	for kind, c := range map[*tokens.Kind]any{
		Float:          floatComponent{},
		Caption:        captionComponent{ctx: ctx},
		FloatReference: referenceComponent{ctx: ctx},
	} {
		if err := rd.Add(kind, c); err != nil {
			return err
		}
	}
	return nil
}

// Reinit implements ext.Reinitializer.
func (e *Extension) Reinit() { e.ctx.Counters.Reset() }

// label is the visible name of float number n, "Listing 3".
func label(prefix string, n int) string {
	if prefix == "" {
		return strconv.Itoa(n)
	}
	return strings.ToUpper(prefix[:1]) + prefix[1:] + " " + strconv.Itoa(n)
}

type floatComponent struct{}

func (floatComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	div := dom.Element(parent, "div", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(div, "simdoc-float")
	return div, nil
}

func (floatComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	div := dom.Element(parent, "div", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(div, "simdoc-float", "card")
	return dom.Element(div, "div", "class", "card-content"), nil
}

func (floatComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.Raw(parent, "\n")
	g := latex.Group(parent)
	latex.Raw(parent, "\n")
	return g, nil
}

type captionComponent struct {
	ctx *ext.Context
}

// number assigns the next number when the enclosing float has an id.
func (c captionComponent) number(tok *tokens.Token, page *pages.Page) (string, string) {
	f := tok.Parent()
	if f == nil || f.String("id") == "" {
		return "", ""
	}
	n := c.ctx.Counters.Next(pageKey(page), tok.String("prefix"))
	return label(tok.String("prefix"), n) + ": ", f.String("id")
}

func (c captionComponent) RenderHTML(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	p := dom.Element(parent, "p", "class", "simdoc-caption")
	if heading, _ := c.number(tok, page); heading != "" {
		dom.Text(dom.Element(p, "span", "class", "simdoc-caption-heading"), heading)
	}
	return dom.Element(p, "span", "class", "simdoc-caption-text"), nil
}

func (c captionComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, page *pages.Page) (*latex.Node, error) {
	heading, id := c.number(tok, page)
	if heading != "" {
		latex.String(latex.Command(parent, "textbf"), heading)
		latex.Command(parent, "label", id)
	}
	g := latex.Group(parent)
	latex.Raw(parent, "\n\n")
	return g, nil
}

func pageKey(p *pages.Page) string {
	if p == nil {
		return ""
	}
	return p.Local()
}

// Number returns the label of the float with id under root, counting
// captioned floats with the same prefix in document order, the order the
// caption renderer numbers them in.
func Number(root *tokens.Token, id string) (string, error) {
	var target *tokens.Token
	for _, f := range root.Find(Float) {
		if f.String("id") == id {
			target = f
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("unknown float %q", id)
	}
	prefix := target.String("prefix")
	n := 0
	for _, f := range root.Find(Float) {
		if f.String("prefix") != prefix || f.String("id") == "" || !hasCaption(f) {
			continue
		}
		n++
		if f == target {
			return label(prefix, n), nil
		}
	}
	return "", fmt.Errorf("float %q has no caption to number", id)
}

func hasCaption(f *tokens.Token) bool {
	for _, c := range f.Children() {
		if c.Is(Caption) {
			return true
		}
	}
	return false
}

// refCommand implements [!ref](id) and [!ref](page.md#id).
type refCommand struct{}

func (refCommand) Name() string              { return "ref" }
func (refCommand) Subcommands() []string     { return []string{""} }
func (refCommand) Settings() settings.Schema { return nil }

func (refCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	if inv.Content == "" {
		return nil, fmt.Errorf("ref: missing target")
	}
	return FloatReference.New(parent, tokens.Props{"target": strings.TrimSpace(inv.Content)})
}

type referenceComponent struct {
	ctx *ext.Context
}

// resolve returns the href and label of the referenced float.
func (c referenceComponent) resolve(tok *tokens.Token, page *pages.Page) (string, string, error) {
	target := tok.String("target")
	local, id, cross := strings.Cut(target, "#")
	if !cross {
		id = local
		text, err := Number(tok.Root(), id)
		return "#" + id, text, err
	}
	if page == nil || c.ctx.Tree == nil || c.ctx.AST == nil {
		return "", "", fmt.Errorf("ref: cross-page target %q needs a page tree", target)
	}
	node, err := c.ctx.Tree.Resolve(page, local)
	if err != nil {
		return "", "", err
	}
	other, ok := node.(*pages.Page)
	if !ok {
		return "", "", fmt.Errorf("ref: %s is not a page", node.Local())
	}
	ast, err := c.ctx.AST(other)
	if err != nil {
		return "", "", err
	}
	text, err := Number(ast, id)
	return pages.RelativeTo(other, page, render.ExtensionFor(c.ctx.Renderer)) + "#" + id, text, err
}

func (c referenceComponent) RenderHTML(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	href, text, err := c.resolve(tok, page)
	if err != nil {
		return nil, err
	}
	dom.Text(dom.Element(parent, "a", "href", href, "class", "simdoc-ref"), text)
	return nil, nil
}

func (c referenceComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, page *pages.Page) (*latex.Node, error) {
	_, text, err := c.resolve(tok, page)
	if err != nil {
		return nil, err
	}
	_, id, cross := strings.Cut(tok.String("target"), "#")
	if !cross {
		id = tok.String("target")
	}
	cmd := latex.Command(parent, "hyperref")
	cmd.Optional = id
	latex.String(cmd, text)
	return nil, nil
}
