package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Block patterns, in registration order.
var (
	codePattern     = grammar.Regex("(?sm)\x60{3}(?P<language>[\\w+#.-]*)[ \\t]*(?P<settings>[^\\n]*)\\n(?P<code>.*?)^\x60{3}[ \\t]*(?:\\n|\\z)")
	quotePattern    = grammar.Regex(`(?:>[^\n]*(?:\n|\z))+`)
	headingPattern  = grammar.Regex(`(?P<level>#{1,6})[ \t]+(?P<rest>[^\n]*)(?:\n|\z)`)
	shortcutPattern = grammar.Regex(`\[(?P<key>[^\]\n]+)\]:[ \t]*(?P<link>\S+)[ \t]*(?:\n|\z)`)
	breakPattern    = grammar.Regex(`(?:[ \t]*\n)+`)
)

// attrs returns the common id, class and style attributes of tok followed
// by extra key, value pairs.
func attrs(tok *tokens.Token, extra ...string) []string {
	return append([]string{
		"id", tok.String("id"),
		"class", tok.String("class"),
		"style", tok.String("style"),
	}, extra...)
}

func label(parent *latex.Node, tok *tokens.Token) {
	if id := tok.String("id"); id != "" {
		latex.Command(parent, "label", id)
	}
}

// CodeComponent handles fenced code blocks.
type CodeComponent struct{}

var codeSettings = settings.Common.Merge(settings.Schema{
	{Name: "max-height", Default: "", Type: settings.String, Description: "CSS max-height of the code box."},
})

// CreateToken implements reader.Component.
func (CodeComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	vals, err := codeSettings.Parse(m.Group("settings"))
	if err != nil {
		return nil, err
	}
	lang := m.Group("language")
	if lang == "" {
		lang = "text"
	}
	props := tokens.Props{
		"content":    strings.TrimSuffix(m.Group("code"), "\n"),
		"language":   lang,
		"max-height": vals.String("max-height"),
	}
	for k, v := range vals.Attributes() {
		props[k] = v
	}
	return Code.New(parent, props)
}

// RenderHTML implements render.HTMLComponent.
func (CodeComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	pre := dom.Element(parent, "pre", attrs(tok, "style", maxHeight(tok))...)
	code := dom.Element(pre, "code", "class", "language-"+tok.String("language"))
	dom.Text(code, tok.String("content"))
	return pre, nil
}

// RenderMaterialize implements render.MaterializeComponent with chroma
// highlighting.
func (c CodeComponent) RenderMaterialize(parent *html.Node, tok *tokens.Token, page *pages.Page) (*html.Node, error) {
	var b strings.Builder
	if err := Highlight(&b, tok.String("content"), tok.String("language")); err != nil {
		return c.RenderHTML(parent, tok, page)
	}
	div := dom.Element(parent, "div", attrs(tok, "style", maxHeight(tok))...)
	dom.AddClass(div, "code-block", "card")
	if err := dom.Raw(div, b.String()); err != nil {
		return nil, fmt.Errorf("highlighted code: %w", err)
	}
	return div, nil
}

// RenderLatex implements render.LatexComponent.
func (CodeComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	env := latex.Environment(parent, "lstlisting")
	env.Verbatim = true
	latex.String(env, tok.String("content"))
	return env, nil
}

func maxHeight(tok *tokens.Token) string {
	style := tok.String("style")
	h := tok.String("max-height")
	if h == "" {
		return style
	}
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return style + "max-height:" + h + ";overflow-y:auto"
}

// QuoteComponent handles "> " prefixed blocks; the stripped text is
// tokenized again as blocks.
type QuoteComponent struct{}

var quotePrefix = regexp.MustCompile(`(?m)^> ?`)

// CreateToken implements reader.Component.
func (QuoteComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	tok, err := Quote.New(parent, nil)
	if err != nil {
		return nil, err
	}
	m.Scanner.Block(tok, quotePrefix.ReplaceAllString(m.Text(), ""), m.Line)
	return tok, nil
}

// RenderHTML implements render.HTMLComponent.
func (QuoteComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "blockquote", attrs(tok)...), nil
}

// RenderLatex implements render.LatexComponent.
func (QuoteComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	return latex.Environment(parent, "quote"), nil
}

// HeadingComponent handles "# Title key=value" headings.
type HeadingComponent struct{}

var headingSettings = settings.Common.Merge(settings.Schema{
	{Name: "details", Default: "", Type: settings.String, Description: "Collapsible state of the section: open, close or none."},
})

// CreateToken implements reader.Component.
func (HeadingComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	text, raw, err := settings.Split(m.Group("rest"))
	if err != nil {
		return nil, err
	}
	vals, err := headingSettings.Convert(raw)
	if err != nil {
		return nil, err
	}
	switch d := vals.String("details"); d {
	case "", render.CollapseNone, render.CollapseOpen, render.CollapseClosed:
	default:
		return nil, fmt.Errorf("%w: details=%q (want open, close or none)", settings.ErrInvalidValue, d)
	}
	text = strings.TrimSpace(text)
	props := tokens.Props{"level": len(m.Group("level")), "details": vals.String("details")}
	for k, v := range vals.Attributes() {
		props[k] = v
	}
	if props["id"] == "" {
		props["id"] = Slug(text)
	}
	tok, err := Heading.New(parent, props)
	if err != nil {
		return nil, err
	}
	m.Scanner.Inline(tok, text, m.Line)
	return tok, nil
}

// RenderHTML implements render.HTMLComponent.
func (HeadingComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "h"+strconv.Itoa(tok.Int("level")),
		attrs(tok, render.DetailsAttr, tok.String("details"))...), nil
}

var sectioning = [...]string{"section", "subsection", "subsubsection", "paragraph", "subparagraph", "textbf"}

// RenderLatex implements render.LatexComponent.
func (HeadingComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	level := tok.Int("level")
	if level < 1 || level > len(sectioning) {
		return nil, fmt.Errorf("heading level %d out of range", level)
	}
	latex.Raw(parent, "\n")
	cmd := latex.Command(parent, sectioning[level-1])
	label(parent, tok)
	latex.Raw(parent, "\n")
	return cmd, nil
}

var slugStrip = regexp.MustCompile(`[^\pL\pN]+`)

// Slug derives an anchor id from heading text.
func Slug(text string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(text), "-"), "-")
}

// ParagraphComponent handles runs of text separated by blank lines.
type ParagraphComponent struct{}

// CreateToken implements reader.Component.
func (ParagraphComponent) CreateToken(parent *tokens.Token, _ *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return Paragraph.New(parent, nil)
}

// RenderHTML implements render.HTMLComponent.
func (ParagraphComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "p", attrs(tok)...), nil
}

// RenderLatex implements render.LatexComponent.
func (ParagraphComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.Raw(parent, "\n")
	g := latex.Group(parent)
	latex.Raw(parent, "\n")
	return g, nil
}

// ShortcutComponent handles "[key]: url" definitions, which render nothing
// themselves and feed ShortcutLink.
type ShortcutComponent struct{}

// CreateToken implements reader.Component.
func (ShortcutComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return Shortcut.New(parent, tokens.Props{"key": m.Group("key"), "link": m.Group("link")})
}

// RenderHTML implements render.HTMLComponent.
func (ShortcutComponent) RenderHTML(*html.Node, *tokens.Token, *pages.Page) (*html.Node, error) {
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (ShortcutComponent) RenderLatex(*latex.Node, *tokens.Token, *pages.Page) (*latex.Node, error) {
	return nil, nil
}

// BreakComponent consumes blank lines.
type BreakComponent struct{}

// CreateToken implements reader.Component.
func (BreakComponent) CreateToken(*tokens.Token, *reader.Match, *pages.Page) (*tokens.Token, error) {
	return nil, nil
}
