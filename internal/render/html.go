package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// HTMLComponent renders a token into an x/net/html tree.
type HTMLComponent interface {
	RenderHTML(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error)
}

// MaterializeComponent renders a token for the themed HTML renderer.
type MaterializeComponent interface {
	RenderMaterialize(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error)
}

// PageData is handed to the HTML page templates.
type PageData struct {
	Title       string
	Body        template.HTML
	Style       template.CSS
	Breadcrumbs template.HTML
	// Root is the relative path from the page to the destination root.
	Root string
}

// HTMLRenderer produces plain HTML pages.
type HTMLRenderer struct {
	engine[*html.Node]
	collapsible Collapsible
	page        *template.Template
	style       string
}

// NewHTML returns the plain HTML renderer.
func NewHTML(opts Options) (*HTMLRenderer, error) {
	r := &HTMLRenderer{collapsible: opts.Collapsible}
	r.engine = newEngine(HTML, opts, resolveHTML, dom.Count, dom.Truncate)
	if err := r.load(opts.Assets, HTML); err != nil {
		return nil, err
	}
	return r, nil
}

func resolveHTML(component any) (Func[*html.Node], bool) {
	if c, ok := component.(HTMLComponent); ok {
		return c.RenderHTML, true
	}
	return nil, false
}

func (r *HTMLRenderer) load(loader TemplateLoader, name string) error {
	if loader == nil {
		r.page = template.Must(template.New(name).Parse(fallbackPage))
		return nil
	}
	text, err := loader.LoadTemplate(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	r.page = t
	if r.style, err = loader.LoadStyle(name); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return nil
}

// Extension implements Renderer.
func (r *HTMLRenderer) Extension() string { return ".html" }

// Body renders the tree under root into a fragment and applies the
// section pass.
func (r *HTMLRenderer) Body(root *tokens.Token, page *pages.Page) (*html.Node, error) {
	body := dom.Fragment()
	if err := r.process(body, root, page); err != nil {
		return nil, err
	}
	BuildSections(body, r.collapsible)
	return body, nil
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(root *tokens.Token, page *pages.Page) (string, error) {
	body, err := r.Body(root, page)
	if err != nil {
		return "", err
	}
	return r.wrap(body, page, "", r.style)
}

func (r *HTMLRenderer) wrap(body *html.Node, page *pages.Page, crumbs template.HTML, style string) (string, error) {
	content, err := dom.Render(body)
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", pageName(page), err)
	}
	data := PageData{
		Title:       title(body, page),
		Body:        template.HTML(content), // #nosec G203 -- rendered by x/net/html, already escaped
		Style:       template.CSS(style),    // #nosec G203 -- embedded or operator-supplied stylesheet
		Breadcrumbs: crumbs,
		Root:        rootPath(page),
	}
	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return CollapseBlankLines(buf.String()), nil
}

// title is the text of the first h1, or the page name.
func title(body *html.Node, page *pages.Page) string {
	var found string
	dom.Walk(body, func(n *html.Node) {
		if found == "" && n.Type == html.ElementNode && n.Data == "h1" {
			found = strings.TrimSpace(dom.TextContent(n))
		}
	})
	if found != "" {
		return found
	}
	if page == nil {
		return ""
	}
	return strings.TrimSuffix(page.Name(), pages.PageExtension)
}

func rootPath(page *pages.Page) string {
	if page == nil {
		return "."
	}
	depth := strings.Count(page.Local(), "/")
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

const fallbackPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>{{.Body}}</body></html>
`
