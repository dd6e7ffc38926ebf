package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// LatexComponent renders a token into a LaTeX node tree.
type LatexComponent interface {
	RenderLatex(parent *latex.Node, tok *tokens.Token, page *pages.Page) (*latex.Node, error)
}

// LatexData is handed to the LaTeX preamble template.
type LatexData struct {
	Title string
	Body  string
}

// LatexRenderer produces standalone LaTeX documents.
type LatexRenderer struct {
	engine[*latex.Node]
	page *template.Template
}

// NewLatex returns the LaTeX renderer.
func NewLatex(opts Options) (*LatexRenderer, error) {
	r := &LatexRenderer{}
	r.engine = newEngine(Latex, opts, resolveLatex, (*latex.Node).Count, (*latex.Node).Truncate)
	text := fallbackPreamble
	if opts.Assets != nil {
		var err error
		if text, err = opts.Assets.LoadTemplate(Latex); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
	}
	t, err := template.New(Latex).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, Latex, err)
	}
	r.page = t
	return r, nil
}

func resolveLatex(component any) (Func[*latex.Node], bool) {
	if c, ok := component.(LatexComponent); ok {
		return c.RenderLatex, true
	}
	return nil, false
}

// Extension implements Renderer.
func (r *LatexRenderer) Extension() string { return ".tex" }

// Body renders the tree under root into a LaTeX node tree.
func (r *LatexRenderer) Body(root *tokens.Token, page *pages.Page) (*latex.Node, error) {
	doc := latex.NewDocument()
	if err := r.process(doc, root, page); err != nil {
		return nil, err
	}
	return doc, nil
}

// Render implements Renderer.
func (r *LatexRenderer) Render(root *tokens.Token, page *pages.Page) (string, error) {
	doc, err := r.Body(root, page)
	if err != nil {
		return "", err
	}
	data := LatexData{Body: latex.Render(doc)}
	if page != nil {
		data.Title = latex.Escape(strings.TrimSuffix(page.Name(), pages.PageExtension))
	}
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return CollapseBlankLines(buf.String()), nil
}

const fallbackPreamble = `\documentclass{article}
\begin{document}
{{.Body}}
\end{document}
`
