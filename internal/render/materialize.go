package render

import (
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// HighlightStyle is the chroma style used for code blocks in themed output.
const HighlightStyle = "github"

// MaterializeRenderer produces themed HTML: the plain HTML output plus
// breadcrumbs, a sidebar-ready layout and highlighted code.
type MaterializeRenderer struct {
	HTMLRenderer
}

// NewMaterialize returns the themed HTML renderer.
func NewMaterialize(opts Options) (*MaterializeRenderer, error) {
	r := &MaterializeRenderer{HTMLRenderer{collapsible: opts.Collapsible}}
	r.engine = newEngine(Materialize, opts, resolveMaterialize, dom.Count, dom.Truncate)
	if err := r.load(opts.Assets, Materialize); err != nil {
		return nil, err
	}
	var css strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&css, styles.Get(HighlightStyle)); err == nil {
		r.style += "\n" + css.String()
	}
	return r, nil
}

// resolveMaterialize prefers the themed method and falls back exactly one
// level, to the plain HTML method.
func resolveMaterialize(component any) (Func[*html.Node], bool) {
	if c, ok := component.(MaterializeComponent); ok {
		return c.RenderMaterialize, true
	}
	return resolveHTML(component)
}

// Render implements Renderer.
func (r *MaterializeRenderer) Render(root *tokens.Token, page *pages.Page) (string, error) {
	body, err := r.Body(root, page)
	if err != nil {
		return "", err
	}
	crumbs, err := Breadcrumbs(page)
	if err != nil {
		return "", err
	}
	return r.wrap(body, page, crumbs, r.style)
}

// Breadcrumbs renders the ancestor chain of page as a navigation list.
// Directories holding an index page link to it.
func Breadcrumbs(page *pages.Page) (template.HTML, error) {
	if page == nil {
		return "", nil
	}
	nav := dom.Element(nil, "nav", "class", "breadcrumbs")
	ol := dom.Element(nav, "ol")
	for _, d := range pages.Ancestors(page) {
		if d.Parent() == nil {
			continue
		}
		li := dom.Element(ol, "li")
		if idx := indexPage(d); idx != nil && idx != page {
			dom.Text(dom.Element(li, "a", "href", pages.RelativeTo(idx, page, ".html")), d.Name())
			continue
		}
		dom.Text(li, d.Name())
	}
	dom.Text(dom.Element(ol, "li", "class", "active"), strings.TrimSuffix(page.Name(), pages.PageExtension))
	s, err := dom.Render(nav)
	return template.HTML(s), err // #nosec G203 -- built from escaped nodes
}

func indexPage(d *pages.Directory) *pages.Page {
	for _, c := range d.Children() {
		if p, ok := c.(*pages.Page); ok && p.Name() == "index"+pages.PageExtension {
			return p
		}
	}
	return nil
}
