// Package commonmark embeds CommonMark (with GitHub extensions) in a page:
//
//	!markdown!
//	| a | b |
//	|---|---|
//	!markdown-end!
//
// The content is parsed by goldmark and its AST converted into native
// tokens, so headings, code and links render like core markup and take part
// in the section pass and the heading index.
package commonmark

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// Name is the extension name.
const Name = "commonmark"

// Token kinds for constructs core markup lacks.
var (
	Markdown      = tokens.NewKind("Markdown")
	ThematicBreak = tokens.NewKind("ThematicBreak")
	RawHTML       = tokens.NewKind("RawHTML", tokens.Str("content", ""), tokens.Bool("inline", false))
	Image         = tokens.NewKind("Image", tokens.Required(tokens.Str("src", "")), tokens.Str("alt", ""), tokens.Str("title", ""))
	Table         = tokens.NewKind("Table")
	TableRow      = tokens.NewKind("TableRow", tokens.Bool("header", false))
	TableCell     = tokens.NewKind("TableCell", tokens.Bool("header", false), tokens.Str("align", ""))
)

func init() {
	tokens.MarkInline(TableCell)
}

// Extension registers !markdown!.
type Extension struct {
	ext.Base
	md goldmark.Markdown
}

// New returns the commonmark extension.
func New() *Extension {
	return &Extension{
		Base: ext.Base{ExtName: Name, ExtRequires: []string{cmdext.Name}},
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
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
	if err := ctx.Commands.Add(markdownCommand{e: e}); err != nil {
		return err
	}
	bindings := []struct {
		kind      *tokens.Kind
		component any
	}{
		{ThematicBreak, breakComponent{}},
		{RawHTML, rawComponent{}},
		{Image, imageComponent{}},
		{Table, tableComponent{}},
		{TableRow, rowComponent{}},
		{TableCell, cellComponent{}},
	}
	for _, b := range bindings {
		if err := rd.Add(b.kind, b.component); err != nil {
			return err
		}
	}
	return nil
}

// Convert parses source as CommonMark and appends the equivalent tokens to
// parent.
func (e *Extension) Convert(parent *tokens.Token, source []byte) error {
	doc := e.md.Parser().Parse(text.NewReader(source))
	c := converter{source: source}
	return c.children(parent, doc)
}

type markdownCommand struct {
	e *Extension
}

func (markdownCommand) Name() string              { return "markdown" }
func (markdownCommand) Subcommands() []string     { return []string{""} }
func (markdownCommand) Settings() settings.Schema { return nil }

func (c markdownCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	tok, err := Markdown.New(parent, nil)
	if err != nil {
		return nil, err
	}
	if err := c.e.Convert(tok, []byte(inv.Content)); err != nil {
		return nil, err
	}
	return tok, nil
}

type converter struct {
	source []byte
}

func (c converter) children(parent *tokens.Token, n ast.Node) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := c.node(parent, child); err != nil {
			return err
		}
	}
	return nil
}

// node converts n, recursing into its children where the token can hold
// them.
func (c converter) node(parent *tokens.Token, n ast.Node) error {
	var (
		tok *tokens.Token
		err error
	)
	switch n := n.(type) {
	case *ast.Heading:
		tok, err = core.Heading.New(parent, tokens.Props{"level": n.Level})
		if err != nil {
			return err
		}
		if err := c.children(tok, n); err != nil {
			return err
		}
		return tok.Set("id", core.Slug(tok.Text()))
	case *ast.Paragraph, *ast.TextBlock:
		tok, err = core.Paragraph.New(parent, nil)
	case *ast.FencedCodeBlock:
		lang := string(n.Language(c.source))
		if lang == "" {
			lang = "text"
		}
		_, err = core.Code.New(parent, tokens.Props{"content": c.lines(n), "language": lang})
		return err
	case *ast.CodeBlock:
		_, err = core.Code.New(parent, tokens.Props{"content": c.lines(n), "language": "text"})
		return err
	case *ast.Blockquote:
		tok, err = core.Quote.New(parent, nil)
	case *ast.List:
		if n.IsOrdered() {
			tok, err = core.OrderedList.New(parent, tokens.Props{"start": n.Start})
		} else {
			tok, err = core.UnorderedList.New(parent, nil)
		}
	case *ast.ListItem:
		tok, err = core.ListItem.New(parent, nil)
	case *ast.ThematicBreak:
		_, err = ThematicBreak.New(parent, nil)
		return err
	case *ast.HTMLBlock:
		content := c.lines(n)
		if n.HasClosure() {
			content += "\n" + string(n.ClosureLine.Value(c.source))
		}
		_, err = RawHTML.New(parent, tokens.Props{"content": content})
		return err
	case *ast.Text:
		core.NewText(parent, string(n.Segment.Value(c.source)))
		switch {
		case n.HardLineBreak():
			_, err = core.LineBreak.New(parent, nil)
		case n.SoftLineBreak():
			_, err = core.Space.New(parent, nil)
		}
		return err
	case *ast.String:
		core.NewText(parent, string(n.Value))
		return nil
	case *ast.CodeSpan:
		_, err = core.Monospace.New(parent, tokens.Props{"content": c.text(n)})
		return err
	case *ast.Emphasis:
		if n.Level >= 2 {
			tok, err = core.Strong.New(parent, nil)
		} else {
			tok, err = core.Emphasis.New(parent, nil)
		}
	case *extast.Strikethrough:
		tok, err = core.Strikethrough.New(parent, nil)
	case *ast.Link:
		tok, err = core.Link.New(parent, tokens.Props{"url": string(n.Destination)})
	case *ast.AutoLink:
		var link *tokens.Token
		if link, err = core.Link.New(parent, tokens.Props{"url": string(n.URL(c.source))}); err != nil {
			return err
		}
		core.NewText(link, string(n.Label(c.source)))
		return nil
	case *ast.Image:
		_, err = Image.New(parent, tokens.Props{
			"src":   string(n.Destination),
			"title": string(n.Title),
			"alt":   c.text(n),
		})
		return err
	case *ast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		_, err = RawHTML.New(parent, tokens.Props{"content": b.String(), "inline": true})
		return err
	case *extast.Table:
		tok, err = Table.New(parent, nil)
		if err != nil {
			return err
		}
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			if err := c.row(tok, row, n.Alignments); err != nil {
				return err
			}
		}
		return nil
	case *extast.TaskCheckBox:
		mark := "[ ] "
		if n.IsChecked {
			mark = "[x] "
		}
		core.NewText(parent, mark)
		return nil
	default:
		return fmt.Errorf("unsupported markdown node %s", n.Kind())
	}
	if err != nil {
		return err
	}
	return c.children(tok, n)
}

func (c converter) row(table *tokens.Token, row ast.Node, align []extast.Alignment) error {
	_, header := row.(*extast.TableHeader)
	r, err := TableRow.New(table, tokens.Props{"header": header})
	if err != nil {
		return err
	}
	i := 0
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		props := tokens.Props{"header": header}
		if i < len(align) && align[i] != extast.AlignNone {
			props["align"] = align[i].String()
		}
		tc, err := TableCell.New(r, props)
		if err != nil {
			return err
		}
		if err := c.children(tc, cell); err != nil {
			return err
		}
		i++
	}
	return nil
}

// lines joins the raw lines of a block node.
func (c converter) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return string(bytes.TrimRight(b.Bytes(), "\n"))
}

// text collects the literal text under an inline node.
func (c converter) text(n ast.Node) string {
	var b bytes.Buffer
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
