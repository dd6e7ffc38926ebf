package commonmark

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

type breakComponent struct{}

func (breakComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Element(parent, "hr")
	return nil, nil
}

func (breakComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.Raw(parent, "\n\\noindent\\rule{\\textwidth}{0.4pt}\n")
	return nil, nil
}

// rawComponent passes embedded HTML through; LaTeX output drops it.
type rawComponent struct{}

func (rawComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return nil, dom.Raw(parent, tok.String("content"))
}

func (rawComponent) RenderLatex(*latex.Node, *tokens.Token, *pages.Page) (*latex.Node, error) {
	return nil, nil
}

type imageComponent struct{}

func (imageComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Element(parent, "img", "src", tok.String("src"), "alt", tok.String("alt"), "title", tok.String("title"),
		"id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	return nil, nil
}

func (imageComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	img := dom.Element(parent, "img", "src", tok.String("src"), "alt", tok.String("alt"), "title", tok.String("title"))
	dom.AddClass(img, "responsive-img")
	return nil, nil
}

func (imageComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	cmd := latex.Command(parent, "includegraphics")
	cmd.Optional = `width=\linewidth`
	cmd.Args = []string{tok.String("src")}
	return nil, nil
}

type tableComponent struct{}

func (tableComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "table", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style")), nil
}

func (tableComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	t := dom.Element(parent, "table", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(t, "striped")
	return t, nil
}

func (tableComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	cols := 0
	if rows := tok.Children(); len(rows) > 0 {
		cols = len(rows[0].Children())
	}
	return latex.Environment(parent, "tabular", strings.Repeat("l", cols)), nil
}

type rowComponent struct{}

func (rowComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "tr"), nil
}

func (rowComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	row := latex.Group(parent)
	latex.Raw(parent, ` \\`+"\n")
	if tok.Bool("header") {
		latex.Raw(parent, "\\hline\n")
	}
	return row, nil
}

type cellComponent struct{}

func (cellComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	tag := "td"
	if tok.Bool("header") {
		tag = "th"
	}
	style := ""
	if a := tok.String("align"); a != "" {
		style = "text-align:" + a
	}
	return dom.Element(parent, tag, "style", style), nil
}

func (cellComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	if p := tok.Parent(); p != nil && len(p.Children()) > 0 && p.Children()[0] != tok {
		latex.Raw(parent, " & ")
	}
	return latex.Group(parent), nil
}
