package core

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/tokens"
)

var (
	bulletMarker  = regexp.MustCompile(`\A[-*][ \t]+`)
	numberMarker  = regexp.MustCompile(`\A([0-9]+)\.[ \t]+`)
	blockStarters = regexp.MustCompile("\\A(?:[-*][ \\t]|[0-9]+\\.[ \\t]|#{1,6}[ \\t]|\x60{3}|>|![A-Za-z])")
)

var (
	unorderedPattern = grammar.Func(func(text string, pos int) (*grammar.Match, bool) {
		return matchList(text, pos, bulletMarker)
	})
	orderedPattern = grammar.Func(func(text string, pos int) (*grammar.Match, bool) {
		return matchList(text, pos, numberMarker)
	})
	paragraphPattern = grammar.Func(matchParagraph)
)

func lineEnd(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text)
}

func nextLine(text string, end int) int {
	if end < len(text) {
		return end + 1
	}
	return end
}

func blank(line string) bool { return strings.TrimSpace(line) == "" }

func indented(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}

// dedent removes up to n leading spaces.
func dedent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// listItem is the dedented source of one item and its line offset from the
// start of the list.
type listItem struct {
	text string
	line int
}

// scanList reads consecutive items introduced by marker. Item bodies are
// the marker line plus indented continuation lines; a blank line continues
// the list only when followed by an indented line or another item.
func scanList(text string, pos int, marker *regexp.Regexp) (end int, items []listItem) {
	i, line := pos, 0
	for i < len(text) {
		loc := marker.FindStringIndex(text[i:])
		if loc == nil {
			break
		}
		width := loc[1]
		le := lineEnd(text, i)
		var b strings.Builder
		b.WriteString(text[i+width : le])
		item := listItem{line: line}
		i, line = nextLine(text, le), line+1
		end = i

		for i < len(text) {
			le = lineEnd(text, i)
			cur := text[i:le]
			if !blank(cur) {
				if !indented(cur) {
					break
				}
				b.WriteString("\n" + dedent(cur, width))
				i, line = nextLine(text, le), line+1
				end = i
				continue
			}
			j, skipped := i, 0
			for j < len(text) && blank(text[j:lineEnd(text, j)]) {
				j, skipped = nextLine(text, lineEnd(text, j)), skipped+1
			}
			if j >= len(text) {
				break
			}
			next := text[j:lineEnd(text, j)]
			if indented(next) {
				b.WriteString(strings.Repeat("\n", skipped))
				i, line = j, line+skipped
				continue
			}
			if marker.MatchString(next) {
				i, line = j, line+skipped
			}
			break
		}
		item.text = b.String()
		items = append(items, item)
		if i < len(text) && !marker.MatchString(text[i:]) {
			break
		}
	}
	return end, items
}

func matchList(text string, pos int, marker *regexp.Regexp) (*grammar.Match, bool) {
	end, items := scanList(text, pos, marker)
	if len(items) == 0 {
		return nil, false
	}
	return grammar.NewMatch(text, pos, end), true
}

// matchParagraph consumes lines up to a blank line or a line opening
// another block construct.
func matchParagraph(text string, pos int) (*grammar.Match, bool) {
	i := pos
	contentEnd := pos
	for i < len(text) {
		le := lineEnd(text, i)
		cur := text[i:le]
		if blank(cur) || (i > pos && blockStarters.MatchString(cur)) {
			break
		}
		contentEnd = le
		i = nextLine(text, le)
	}
	if contentEnd == pos {
		return nil, false
	}
	m := grammar.NewMatch(text, pos, i)
	m.SetGroup(reader.GroupInline, pos, contentEnd)
	return m, true
}

// ListComponent creates UnorderedList or OrderedList tokens and re-enters
// the block grammar for each item.
type ListComponent struct {
	Ordered bool
}

// CreateToken implements reader.Component.
func (c ListComponent) CreateToken(parent *tokens.Token, m *reader.Match, _ *pages.Page) (*tokens.Token, error) {
	marker := bulletMarker
	kind, props := UnorderedList, tokens.Props(nil)
	if c.Ordered {
		marker, kind = numberMarker, OrderedList
		if sm := numberMarker.FindStringSubmatch(m.Text()); sm != nil {
			n, err := strconv.Atoi(sm[1])
			if err != nil {
				return nil, err
			}
			props = tokens.Props{"start": n}
		}
	}
	list, err := kind.New(parent, props)
	if err != nil {
		return nil, err
	}
	_, items := scanList(m.Text(), 0, marker)
	for _, it := range items {
		li, err := ListItem.New(list, nil)
		if err != nil {
			return nil, err
		}
		li.SetInfo(&tokens.Info{Line: m.Line + it.line, Raw: it.text, Pattern: "ListItem"})
		m.Scanner.Block(li, it.text, m.Line+it.line)
	}
	return list, nil
}

// RenderHTML implements render.HTMLComponent.
func (c ListComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	if !c.Ordered {
		return dom.Element(parent, "ul", attrs(tok)...), nil
	}
	start := ""
	if n := tok.Int("start"); n != 1 {
		start = strconv.Itoa(n)
	}
	return dom.Element(parent, "ol", attrs(tok, "start", start)...), nil
}

// RenderLatex implements render.LatexComponent.
func (c ListComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	if !c.Ordered {
		return latex.Environment(parent, "itemize"), nil
	}
	env := latex.Environment(parent, "enumerate")
	if n := tok.Int("start"); n != 1 {
		latex.Raw(env, `\setcounter{enumi}{`+strconv.Itoa(n-1)+"}\n")
	}
	return env, nil
}

// ListItemComponent renders list items; they are created by ListComponent.
type ListItemComponent struct{}

// RenderHTML implements render.HTMLComponent.
func (ListItemComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	return dom.Element(parent, "li", attrs(tok)...), nil
}

// RenderLatex implements render.LatexComponent.
func (ListItemComponent) RenderLatex(parent *latex.Node, _ *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	item := latex.Bare(parent, "item")
	latex.Raw(parent, "\n")
	return item, nil
}
