// Package contents generates navigation lists: !contents for the headings
// of the current page and !sitemap for every page of the build.
package contents

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// Name is the extension name.
const Name = "contents"

// Token kinds.
var (
	Contents = tokens.NewKind("Contents", tokens.Int("levels", 3))
	Sitemap  = tokens.NewKind("Sitemap")
)

// Extension registers !contents and !sitemap.
type Extension struct {
	ext.Base
}

// New returns the contents extension.
func New() *Extension {
	return &Extension{Base: ext.Base{ExtName: Name, ExtRequires: []string{cmdext.Name}}}
}

// Factory registers the extension for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name: Name,
		New:  func(settings.Values) (ext.Extension, error) { return New(), nil },
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, _ *reader.Reader, rd render.Renderer) error {
	if err := ctx.Commands.Add(contentsCommand{}); err != nil {
		return err
	}
	if err := ctx.Commands.Add(sitemapCommand{}); err != nil {
		return err
	}
	if err := rd.Add(Contents, contentsComponent{}); err != nil {
		return err
	}
	return rd.Add(Sitemap, sitemapComponent{ctx: ctx})
}

type contentsCommand struct{}

func (contentsCommand) Name() string          { return "contents" }
func (contentsCommand) Subcommands() []string { return []string{""} }
func (contentsCommand) Settings() settings.Schema {
	return settings.Schema{
		{Name: "levels", Default: 3, Type: settings.Int, Description: "Deepest heading level listed."},
	}
}

func (contentsCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	return Contents.New(parent, tokens.Props{"levels": inv.Settings.Int("levels")})
}

type sitemapCommand struct{}

func (sitemapCommand) Name() string              { return "sitemap" }
func (sitemapCommand) Subcommands() []string     { return []string{""} }
func (sitemapCommand) Settings() settings.Schema { return nil }

func (sitemapCommand) CreateToken(parent *tokens.Token, _ *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	return Sitemap.New(parent, nil)
}

// entry is one listed heading with its nested entries.
type entry struct {
	id, text string
	children []*entry
}

// outline nests the headings of root up to levels deep, skipping those
// without an id.
func outline(root *tokens.Token, levels int) []*entry {
	type frame struct {
		level int
		list  *[]*entry
	}
	var top []*entry
	stack := []frame{{level: 0, list: &top}}
	for _, h := range root.Find(core.Heading) {
		lvl := h.Int("level")
		if lvl > levels || h.String("id") == "" {
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].level >= lvl {
			stack = stack[:len(stack)-1]
		}
		e := &entry{id: h.String("id"), text: h.Text()}
		cur := stack[len(stack)-1].list
		*cur = append(*cur, e)
		stack = append(stack, frame{level: lvl, list: &e.children})
	}
	return top
}

type contentsComponent struct{}

func (contentsComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	nav := dom.Element(parent, "nav", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(nav, "simdoc-contents")
	writeHTML(nav, outline(tok.Root(), tok.Int("levels")))
	return nav, nil
}

func writeHTML(parent *html.Node, entries []*entry) {
	if len(entries) == 0 {
		return
	}
	ul := dom.Element(parent, "ul")
	for _, e := range entries {
		li := dom.Element(ul, "li")
		dom.Text(dom.Element(li, "a", "href", "#"+e.id), e.text)
		writeHTML(li, e.children)
	}
}

func (contentsComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.Bare(parent, "tableofcontents")
	return nil, nil
}

type sitemapComponent struct {
	ctx *ext.Context
}

// title returns the text of the first heading of p, or its path.
func (c sitemapComponent) title(p *pages.Page) string {
	if c.ctx.AST != nil {
		if ast, err := c.ctx.AST(p); err == nil {
			if hs := ast.Find(core.Heading); len(hs) > 0 {
				return hs[0].Text()
			}
		}
	}
	return p.Local()
}

func (c sitemapComponent) RenderHTML(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	nav := dom.Element(parent, "nav", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(nav, "simdoc-sitemap")
	if c.ctx.Tree == nil || page == nil {
		return nav, nil
	}
	c.writeDir(nav, c.ctx.Tree.Root(), page)
	return nav, nil
}

func (c sitemapComponent) writeDir(parent *html.Node, d *pages.Directory, from *pages.Page) {
	ul := dom.Element(parent, "ul")
	suffix := render.ExtensionFor(c.ctx.Renderer)
	for _, n := range d.Children() {
		switch n := n.(type) {
		case *pages.Directory:
			li := dom.Element(ul, "li", "class", "simdoc-sitemap-dir")
			dom.Text(li, n.Name())
			c.writeDir(li, n, from)
		case *pages.Page:
			li := dom.Element(ul, "li")
			dom.Text(dom.Element(li, "a", "href", pages.RelativeTo(n, from, suffix)), c.title(n))
		}
	}
}

func (c sitemapComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	if c.ctx.Tree == nil {
		return nil, nil
	}
	env := latex.Environment(parent, "itemize")
	for _, p := range c.ctx.Tree.Pages() {
		latex.Bare(env, "item")
		latex.String(env, c.title(p)+"\n")
	}
	return nil, nil
}
