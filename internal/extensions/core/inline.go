package core

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Inline patterns, in registration order.
var (
	lineBreakPattern    = grammar.Regex(`\\\\[ \t]*(?:\n|\z)`)
	escapePattern       = grammar.Regex(`\\(?P<char>[^\s\w])`)
	monospacePattern    = grammar.Regex("\x60(?P<code>[^\x60\\n]+)\x60")
	linkPattern         = grammar.Regex(`\[(?P<inline>[^\]\n]*)\]\((?P<url>[^)\s]*)(?P<settings>[^)\n]*)\)`)
	shortcutLinkPattern = grammar.Regex(`\[(?P<key>[^\]\s!][^\]\n]*)\]`)
	spacePattern        = grammar.Regex(`\s+`)
	numberPattern       = grammar.Regex(`[0-9]+`)
	wordPattern         = grammar.Regex(`[\pL\pM\pN_]+`)
	punctuationPattern  = grammar.Regex(`[^\pL\pN\s]`)
)

// format returns the pattern for text wrapped in a delimiter rune. The
// content may not start or end with a space.
func format(delim string) grammar.Pattern {
	d := regexp.QuoteMeta(delim)
	return grammar.Regex(d + `(?P<inline>[^\s` + d + `](?:[^` + d + `\n]*[^\s` + d + `])?)` + d)
}

var (
	textSplit = regexp.MustCompile(`(?s)\s+|[0-9]+|[\pL\pM\pN_]+|.`)
	wordStart = regexp.MustCompile(`\A[\pL\pM\pN_]`)
)

func isWordStart(s string) bool { return wordStart.MatchString(s) }

// TextComponent creates Word, Number, Punctuation and String tokens from the
// whole match.
type TextComponent struct {
	Kind *tokens.Kind
}

// CreateToken implements reader.Component.
func (c TextComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	content := m.Text()
	if m.Has("char") {
		content = m.Group("char")
	}
	return c.Kind.New(parent, tokens.Props{"content": content})
}

// RenderHTML implements render.HTMLComponent.
func (TextComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Text(parent, tok.String("content"))
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (TextComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.String(parent, tok.String("content"))
	return nil, nil
}

// SpaceComponent collapses whitespace runs, newlines included, to one space.
type SpaceComponent struct{}

// CreateToken implements reader.Component.
func (SpaceComponent) CreateToken(parent *tokens.Token, _ *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return Space.New(parent, tokens.Props{"content": " "})
}

// RenderHTML implements render.HTMLComponent.
func (SpaceComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Text(parent, " ")
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (SpaceComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.String(parent, " ")
	return nil, nil
}

// LineBreakComponent handles a trailing double backslash.
type LineBreakComponent struct{}

// CreateToken implements reader.Component.
func (LineBreakComponent) CreateToken(parent *tokens.Token, _ *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return LineBreak.New(parent, nil)
}

// RenderHTML implements render.HTMLComponent.
func (LineBreakComponent) RenderHTML(parent *html.Node, _ *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Element(parent, "br")
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (LineBreakComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.Raw(parent, "\\\\\n")
	return nil, nil
}

// MonospaceComponent handles `code` spans.
type MonospaceComponent struct{}

// CreateToken implements reader.Component.
func (MonospaceComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return Monospace.New(parent, tokens.Props{"content": m.Group("code")})
}

// RenderHTML implements render.HTMLComponent.
func (MonospaceComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	dom.Text(dom.Element(parent, "code", attrs(tok)...), tok.String("content"))
	return nil, nil
}

// RenderLatex implements render.LatexComponent.
func (MonospaceComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	latex.String(latex.Command(parent, "texttt"), tok.String("content"))
	return nil, nil
}

// FormatComponent wraps inline content in one HTML element or LaTeX command.
type FormatComponent struct {
	Kind  *tokens.Kind
	Tag   string
	Latex string
}

// CreateToken implements reader.Component.
func (c FormatComponent) CreateToken(parent *tokens.Token, _ *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return c.Kind.New(parent, nil)
}

// RenderHTML implements render.HTMLComponent.
func (c FormatComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, c.Tag, attrs(tok)...), nil
}

// RenderLatex implements render.LatexComponent.
func (c FormatComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	return latex.Command(parent, c.Latex), nil
}

// LinkComponent handles [text](url key=value).
type LinkComponent struct{}

// CreateToken implements reader.Component.
func (LinkComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	props := tokens.Props{"url": m.Group("url")}
	if s := strings.TrimSpace(m.Group("settings")); s != "" {
		vals, err := linkSettings.Parse(s)
		if err != nil {
			return nil, err
		}
		for k, v := range vals.Attributes() {
			props[k] = v
		}
	}
	return Link.New(parent, props)
}

// RenderHTML implements render.HTMLComponent.
func (LinkComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "a", attrs(tok, "href", tok.String("url"))...), nil
}

// RenderLatex implements render.LatexComponent.
func (LinkComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	return latex.Command(parent, "href", EscapeURL(tok.String("url"))), nil
}

// EscapeURL protects the characters hyperref needs escaped in \href.
func EscapeURL(u string) string {
	return strings.NewReplacer(`%`, `\%`, `#`, `\#`).Replace(u)
}

// ShortcutLinkComponent handles [key] references to a Shortcut definition
// anywhere on the page.
type ShortcutLinkComponent struct{}

// CreateToken implements reader.Component.
func (ShortcutLinkComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	return ShortcutLink.New(parent, tokens.Props{"key": m.Group("key")})
}

func shortcutTarget(tok *tokens.Token) (string, error) {
	key := tok.String("key")
	for _, s := range tok.Root().Find(Shortcut) {
		if s.String("key") == key {
			return s.String("link"), nil
		}
	}
	return "", fmt.Errorf("unknown shortcut key %q", key)
}

// RenderHTML implements render.HTMLComponent.
func (ShortcutLinkComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	target, err := shortcutTarget(tok)
	if err != nil {
		return nil, err
	}
	a := dom.Element(parent, "a", attrs(tok, "href", target)...)
	dom.Text(a, tok.String("key"))
	return a, nil
}

// RenderLatex implements render.LatexComponent.
func (ShortcutLinkComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	target, err := shortcutTarget(tok)
	if err != nil {
		return nil, err
	}
	cmd := latex.Command(parent, "href", EscapeURL(target))
	latex.String(cmd, tok.String("key"))
	return cmd, nil
}
