package core

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// ErrorComponent renders tokenize errors and render exceptions as visible
// markers: a span inside text, a block otherwise.
type ErrorComponent struct {
	// Class is the CSS class of the marker.
	Class string
}

func (c ErrorComponent) marker(parent *html.Node, tok *tokens.Token, themed bool) *html.Node {
	tag := "div"
	if tok.Bool("inline") {
		tag = "span"
	}
	n := dom.Element(parent, tag, "class", c.Class, "title", tok.String("message"))
	if themed {
		dom.AddClass(n, "card-panel", "red", "lighten-4")
	}
	if tok.Is(tokens.Exception) {
		dom.SetAttr(n, "data-kind", tok.String("kind"))
	}
	dom.Text(n, tok.String("raw"))
	if !tok.Bool("inline") {
		d := dom.Element(n, "details")
		dom.Text(dom.Element(d, "summary"), tok.String("message"))
		if trace := tok.String("trace"); trace != "" {
			dom.Text(dom.Element(d, "pre"), trace)
		}
	}
	return n
}

// RenderHTML implements render.HTMLComponent.
func (c ErrorComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	c.marker(parent, tok, false)
	return nil, nil
}

// RenderMaterialize implements render.MaterializeComponent.
func (c ErrorComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	c.marker(parent, tok, true)
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (c ErrorComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	cmd := latex.Command(parent, "textcolor", "red")
	latex.String(cmd, tok.String("raw"))
	return nil, nil
}
