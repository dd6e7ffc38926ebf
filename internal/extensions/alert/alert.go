// Package alert adds boxed callouts:
//
//	!alert! warning title=Deprecated syntax
//	Content, tokenized as blocks.
//	!alert-end!
package alert

import (
	"strings"

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
const Name = "alert"

// Brands are the alert subcommands.
var Brands = []string{"note", "tip", "warning", "error", "construction"}

// colors are the LaTeX frame colors per brand.
var colors = map[string]string{
	"note":         "blue",
	"tip":          "teal",
	"warning":      "orange",
	"error":        "red",
	"construction": "brown",
}

// Token kinds.
var (
	Alert        = tokens.NewKind("Alert", tokens.Required(tokens.Str("brand", "")))
	AlertTitle   = tokens.NewKind("AlertTitle", tokens.Str("brand", ""))
	AlertContent = tokens.NewKind("AlertContent")
)

func init() {
	tokens.MarkInline(AlertTitle)
}

// Extension registers !alert!.
type Extension struct {
	ext.Base
}

// New returns the alert extension.
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
	if err := ctx.Commands.Add(alertCommand{}); err != nil {
		return err
	}
	if err := rd.Add(Alert, alertComponent{}); err != nil {
		return err
	}
	if err := rd.Add(AlertTitle, titleComponent{}); err != nil {
		return err
	}
	return rd.Add(AlertContent, contentComponent{})
}

type alertCommand struct{}

func (alertCommand) Name() string          { return "alert" }
func (alertCommand) Subcommands() []string { return Brands }
func (alertCommand) Settings() settings.Schema {
	return settings.Schema{
		{Name: "title", Default: "", Type: settings.String, Description: "Title text after the brand label."},
		{Name: "prefix", Default: true, Type: settings.Bool, Description: "Show the brand label before the title."},
	}
}

func (alertCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	brand := inv.Subcommand
	a, err := Alert.New(parent, tokens.Props{"brand": brand})
	if err != nil {
		return nil, err
	}
	title := inv.Settings.String("title")
	if inv.Settings.Bool("prefix") || title != "" {
		t := AlertTitle.MustNew(a, tokens.Props{"brand": brand})
		if inv.Settings.Bool("prefix") {
			core.NewText(t, strings.ToUpper(brand))
			if title != "" {
				core.NewText(t, ": ")
			}
		}
		if title != "" {
			inv.Scanner().Inline(t, title, inv.Line())
		}
	}
	content := AlertContent.MustNew(a, nil)
	if strings.TrimSpace(inv.Content) != "" {
		inv.Scanner().Block(content, inv.Content, inv.ContentLine)
	}
	return a, nil
}

type alertComponent struct{}

func (alertComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	div := dom.Element(parent, "div", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(div, "simdoc-alert", "simdoc-alert-"+tok.String("brand"))
	return div, nil
}

func (c alertComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	div, _ := c.RenderHTML(parent, tok, page)
	dom.AddClass(div, "card")
	return div, nil
}

func (alertComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	env := latex.Environment(parent, "tcolorbox")
	env.Optional = "colframe=" + colors[tok.String("brand")] + "!60!black,colback=" + colors[tok.String("brand")] + "!5"
	return env, nil
}

type titleComponent struct{}

func (titleComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "div", "class", "simdoc-alert-title"), nil
}

func (titleComponent) RenderMaterialize(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "div", "class", "simdoc-alert-title card-title"), nil
}

func (titleComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	b := latex.Command(parent, "textbf")
	latex.Raw(parent, "\n\n")
	return b, nil
}

type contentComponent struct{}

func (contentComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "div", "class", "simdoc-alert-content"), nil
}

func (contentComponent) RenderMaterialize(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "div", "class", "simdoc-alert-content card-content"), nil
}

func (contentComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	return parent, nil
}
