package command

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Match group names set by the command patterns.
const (
	groupCommand      = "command"
	groupBang         = "bang"
	groupHead         = "head"
	groupMore         = "more"
	groupContent      = "content"
	groupUnterminated = "unterminated"
)

var (
	headRe    = regexp.MustCompile(`\A!([A-Za-z][\w-]*)(!?)(?:[ \t]+([^\n]*))?[ \t]*(?:\n|\z)`)
	settingRe = regexp.MustCompile(`\A[ \t]*[A-Za-z_][\w.-]*=`)
)

// BlockPattern recognizes the block and bang command forms.
var BlockPattern grammar.Pattern = grammar.Func(matchBlock)

// InlinePattern recognizes [!name!sub settings](content).
var InlinePattern grammar.Pattern = grammar.Regex(
	`\[!(?P<command>[A-Za-z][\w-]*)(?:!(?P<head>[^\]\n]*))?\]\((?P<content>[^)\n]*)\)`)

// matchBlock is procedural because the bang form needs a balanced end
// marker naming the command, which regexp cannot back-reference.
func matchBlock(text string, pos int) (*grammar.Match, bool) {
	loc := headRe.FindStringSubmatchIndex(text[pos:])
	if loc == nil {
		return nil, false
	}
	name := text[pos+loc[2] : pos+loc[3]]
	bang := loc[5] > loc[4]
	m := grammar.NewMatch(text, pos, pos+loc[1])
	m.SetGroup(groupCommand, pos+loc[2], pos+loc[3])
	if bang {
		m.SetGroup(groupBang, pos+loc[4], pos+loc[5])
	}
	if loc[6] >= 0 {
		m.SetGroup(groupHead, pos+loc[6], pos+loc[7])
	}

	i := pos + loc[1]
	start := i
	for i < len(text) {
		end := lineEnd(text, i)
		if !settingRe.MatchString(text[i:end]) {
			break
		}
		i = nextLine(text, end)
	}
	if i > start {
		m.SetGroup(groupMore, start, trimNewline(text, start, i))
	}

	if bang {
		return matchBang(m, text, name, i)
	}

	// plain form: content is the rest of the paragraph
	start = i
	for i < len(text) {
		end := lineEnd(text, i)
		if strings.TrimSpace(text[i:end]) == "" {
			break
		}
		i = nextLine(text, end)
	}
	if i > start {
		m.SetGroup(groupContent, start, trimNewline(text, start, i))
	}
	m.End = i
	return m, true
}

func matchBang(m *grammar.Match, text, name string, i int) (*grammar.Match, bool) {
	open, closing := "!"+name+"!", "!"+name+"-end!"
	start := i
	depth := 1
	for i < len(text) {
		end := lineEnd(text, i)
		line := strings.TrimSpace(text[i:end])
		switch {
		case line == closing:
			depth--
		case line == open || strings.HasPrefix(line, open+" "):
			depth++
		}
		if depth == 0 {
			m.SetGroup(groupContent, start, trimNewline(text, start, i))
			m.End = nextLine(text, end)
			return m, true
		}
		i = nextLine(text, end)
	}
	// Only the head line is consumed so the rest of the page still scans.
	m.SetGroup(groupUnterminated, m.Start, m.End)
	return m, true
}

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

// trimNewline returns the end of text[start:end] without one trailing \n.
func trimNewline(text string, start, end int) int {
	if end > start && text[end-1] == '\n' {
		return end - 1
	}
	return end
}

// Component dispatches command matches to registered handlers.
type Component struct {
	registry *Registry
	inline   bool
}

// NewBlockComponent returns the block-grammar dispatcher for reg.
func NewBlockComponent(reg *Registry) *Component { return &Component{registry: reg} }

// NewInlineComponent returns the inline-grammar dispatcher for reg.
func NewInlineComponent(reg *Registry) *Component {
	return &Component{registry: reg, inline: true}
}

// CreateToken implements reader.Component.
func (c *Component) CreateToken(parent *tokens.Token, m *reader.Match, page *pages.Page) (*tokens.Token, error) {
	name := m.Group(groupCommand)
	if m.Has(groupUnterminated) {
		return nil, fmt.Errorf("%w: missing !%s-end!", ErrUnterminated, name)
	}
	sub, args, raw, err := parseHead(m.Group(groupHead), m.Group(groupMore))
	if err != nil {
		return nil, err
	}
	cmd, err := c.registry.Lookup(name, sub)
	if err != nil {
		return nil, err
	}
	if args != "" {
		if a, ok := cmd.(ArgsTaker); !ok || !a.AcceptsArgs() {
			return nil, fmt.Errorf("%w: %q for !%s %s", ErrUnexpectedArgs, args, name, sub)
		}
	}
	vals, err := settings.Common.Merge(cmd.Settings()).Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("!%s %s: %w", name, sub, err)
	}

	inv := &Invocation{
		Command:     name,
		Subcommand:  sub,
		Args:        args,
		Settings:    vals,
		Bang:        m.Has(groupBang),
		Inline:      c.inline,
		Content:     m.Group(groupContent),
		ContentLine: m.LineOf(groupContent),
		Match:       m,
	}
	tok, err := cmd.CreateToken(parent, inv, page)
	if err != nil || tok == nil {
		return tok, err
	}
	for k, v := range vals.Attributes() {
		if s, _ := v.(string); s != "" && tok.String(k) == "" {
			if err := tok.Set(k, s); err != nil {
				return nil, err
			}
		}
	}
	return tok, nil
}

// parseHead splits the head line into subcommand, free arguments and raw
// settings. The subcommand is the first word unless it is a setting.
func parseHead(head, more string) (sub, args string, raw map[string]string, err error) {
	head = strings.TrimSpace(head)
	if head != "" {
		first, rest, _ := strings.Cut(head, " ")
		if !strings.Contains(first, "=") {
			sub, head = first, rest
		}
	}
	text := head
	if more != "" {
		text += "\n" + more
	}
	rest, raw, err := settings.Split(text)
	if err != nil {
		return "", "", nil, err
	}
	return sub, strings.TrimSpace(rest), raw, nil
}
