package core

import "github.com/alnah/go-simdoc/internal/tokens"

// Block kinds.
var (
	Heading       = tokens.NewKind("Heading", tokens.Required(tokens.Int("level", 1)), tokens.Str("details", ""))
	Paragraph     = tokens.NewKind("Paragraph")
	Code          = tokens.NewKind("Code", tokens.Str("content", ""), tokens.Str("language", "text"), tokens.Str("max-height", ""))
	Quote         = tokens.NewKind("Quote")
	UnorderedList = tokens.NewKind("UnorderedList")
	OrderedList   = tokens.NewKind("OrderedList", tokens.Int("start", 1))
	ListItem      = tokens.NewKind("ListItem")
	Shortcut      = tokens.NewKind("Shortcut", tokens.Required(tokens.Str("key", "")), tokens.Str("link", ""))
)

// Inline kinds. Text-bearing kinds carry a "content" property so Token.Text
// recovers the words.
var (
	Word          = tokens.NewKind("Word", tokens.Str("content", ""))
	Space         = tokens.NewKind("Space", tokens.Str("content", " "))
	Number        = tokens.NewKind("Number", tokens.Str("content", ""))
	Punctuation   = tokens.NewKind("Punctuation", tokens.Str("content", ""))
	String        = tokens.NewKind("String", tokens.Str("content", ""))
	LineBreak     = tokens.NewKind("LineBreak")
	Link          = tokens.NewKind("Link", tokens.Str("url", ""))
	ShortcutLink  = tokens.NewKind("ShortcutLink", tokens.Required(tokens.Str("key", "")))
	Strong        = tokens.NewKind("Strong")
	Emphasis      = tokens.NewKind("Emphasis")
	Underline     = tokens.NewKind("Underline")
	Strikethrough = tokens.NewKind("Strikethrough")
	Subscript     = tokens.NewKind("Subscript")
	Superscript   = tokens.NewKind("Superscript")
	Monospace     = tokens.NewKind("Monospace", tokens.Str("content", ""))
)

func init() {
	tokens.MarkInline(Heading, Paragraph, Link, Strong, Emphasis, Underline,
		Strikethrough, Subscript, Superscript)
}

// NewText appends text as Word, Space, Number and Punctuation tokens, the
// way the inline grammar would split it. Extensions use it for generated
// labels that must survive cross-page text queries.
func NewText(parent *tokens.Token, text string) {
	for _, m := range textSplit.FindAllString(text, -1) {
		switch r := m[0]; {
		case r == ' ' || r == '\t' || r == '\n':
			Space.MustNew(parent, tokens.Props{"content": " "})
		case r >= '0' && r <= '9':
			Number.MustNew(parent, tokens.Props{"content": m})
		case isWordStart(m):
			Word.MustNew(parent, tokens.Props{"content": m})
		default:
			Punctuation.MustNew(parent, tokens.Props{"content": m})
		}
	}
}
