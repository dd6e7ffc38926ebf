// Package core provides the base markup every build needs: headings,
// paragraphs, code, quotes, lists, links, inline formats and the text
// tokens the other extensions build on. It also binds the error markers
// that make render failures containable.
package core

import (
	"fmt"

	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Name is the extension name.
const Name = "core"

var linkSettings = settings.Common

// Extension is the core markup extension.
type Extension struct {
	ext.Base
	ctx *ext.Context
}

// New returns the core extension.
func New() *Extension {
	return &Extension{Base: ext.Base{ExtName: Name}}
}

// Factory registers core for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name: Name,
		New:  func(settings.Values) (ext.Extension, error) { return New(), nil },
	}
}

type entry struct {
	name      string
	pattern   grammar.Pattern
	component reader.Component
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, r *reader.Reader, rd render.Renderer) error {
	e.ctx = ctx

	blocks := []entry{
		{"Code", codePattern, CodeComponent{}},
		{"Quote", quotePattern, QuoteComponent{}},
		{"Heading", headingPattern, HeadingComponent{}},
		{"Shortcut", shortcutPattern, ShortcutComponent{}},
		{"UnorderedList", unorderedPattern, ListComponent{}},
		{"OrderedList", orderedPattern, ListComponent{Ordered: true}},
		{"Break", breakPattern, BreakComponent{}},
		{"Paragraph", paragraphPattern, ParagraphComponent{}},
	}
	for _, b := range blocks {
		if err := r.AddBlock(b.name, b.pattern, b.component, grammar.End); err != nil {
			return err
		}
	}

	inlines := []entry{
		{"LineBreak", lineBreakPattern, LineBreakComponent{}},
		{"Escape", escapePattern, TextComponent{Kind: Punctuation}},
		{"Monospace", monospacePattern, MonospaceComponent{}},
		{"Link", linkPattern, LinkComponent{}},
		{"ShortcutLink", shortcutLinkPattern, ShortcutLinkComponent{}},
		{"Strong", format("*"), FormatComponent{Kind: Strong}},
		{"Emphasis", format("_"), FormatComponent{Kind: Emphasis}},
		{"Underline", format("+"), FormatComponent{Kind: Underline}},
		{"Strikethrough", format("~"), FormatComponent{Kind: Strikethrough}},
		{"Subscript", format("@"), FormatComponent{Kind: Subscript}},
		{"Superscript", format("^"), FormatComponent{Kind: Superscript}},
		{"Space", spacePattern, SpaceComponent{}},
		{"Number", numberPattern, TextComponent{Kind: Number}},
		{"Word", wordPattern, TextComponent{Kind: Word}},
		{"Punctuation", punctuationPattern, TextComponent{Kind: Punctuation}},
	}
	for _, in := range inlines {
		if err := r.AddInline(in.name, in.pattern, in.component, grammar.End); err != nil {
			return err
		}
	}

	bindings := []struct {
		kind      *tokens.Kind
		component any
	}{
		{Heading, HeadingComponent{}},
		{Paragraph, ParagraphComponent{}},
		{Code, CodeComponent{}},
		{Quote, QuoteComponent{}},
		{UnorderedList, ListComponent{}},
		{OrderedList, ListComponent{Ordered: true}},
		{ListItem, ListItemComponent{}},
		{Shortcut, ShortcutComponent{}},
		{Word, TextComponent{}},
		{Number, TextComponent{}},
		{Punctuation, TextComponent{}},
		{String, TextComponent{}},
		{Space, SpaceComponent{}},
		{LineBreak, LineBreakComponent{}},
		{Monospace, MonospaceComponent{}},
		{Link, LinkComponent{}},
		{ShortcutLink, ShortcutLinkComponent{}},
		{Strong, FormatComponent{Tag: "strong", Latex: "textbf"}},
		{Emphasis, FormatComponent{Tag: "em", Latex: "emph"}},
		{Underline, FormatComponent{Tag: "u", Latex: "underline"}},
		{Strikethrough, FormatComponent{Tag: "s", Latex: "sout"}},
		{Subscript, FormatComponent{Tag: "sub", Latex: "textsubscript"}},
		{Superscript, FormatComponent{Tag: "sup", Latex: "textsuperscript"}},
		{tokens.ErrorToken, ErrorComponent{Class: "simdoc-error"}},
		{tokens.Exception, ErrorComponent{Class: "simdoc-exception"}},
	}
	for _, b := range bindings {
		if err := rd.Add(b.kind, b.component); err != nil {
			return fmt.Errorf("binding %s: %w", b.kind.Name(), err)
		}
	}
	return nil
}

// PostTokenize implements ext.PostTokenizer: it records the page headings
// in the sitewide index.
func (e *Extension) PostTokenize(root *tokens.Token, page *pages.Page) error {
	if page == nil {
		return nil
	}
	var hs []ext.Heading
	for _, h := range root.Find(Heading) {
		hs = append(hs, ext.Heading{
			Page:  page.Local(),
			ID:    h.String("id"),
			Text:  h.Text(),
			Level: h.Int("level"),
		})
	}
	e.ctx.Headings.Set(page.Local(), hs)
	return nil
}
