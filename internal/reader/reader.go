// Package reader turns page source into a token tree.
//
// Tokenizing runs in two phases. The block phase matches the block grammar
// over the page, producing block tokens; matches that carry a "block" group
// are re-scanned immediately with the block grammar (nested commands, quotes,
// list items). Matches that carry an "inline" group register a text-bearing
// leaf, and once the block phase is done the inline phase runs the inline
// grammar over every leaf.
//
// A component that fails, by error or panic, never aborts the page: its
// partial output is dropped, one ErrorToken holding the raw span takes its
// place, and scanning resumes after the span.
package reader

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/logging"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Sentinel errors for tokenizing.
var (
	ErrNoMatch        = errors.New("no grammar entry matches")
	ErrComponentPanic = errors.New("component panicked")
)

// Group names with tokenizing meaning.
const (
	GroupBlock  = "block"
	GroupInline = "inline"
)

// Component creates the token for one match. Returning a nil token consumes
// the span without output.
type Component interface {
	CreateToken(parent *tokens.Token, m *Match, page *pages.Page) (*tokens.Token, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(parent *tokens.Token, m *Match, page *pages.Page) (*tokens.Token, error)

// CreateToken implements Component.
func (f ComponentFunc) CreateToken(parent *tokens.Token, m *Match, page *pages.Page) (*tokens.Token, error) {
	return f(parent, m, page)
}

// Match is handed to components: the grammar match plus the entry name, the
// source line and the scanner for explicit re-entry.
type Match struct {
	*grammar.Match
	Name    string
	Line    int
	Scanner *Scanner
}

// LineOf returns the source line of a named group.
func (m *Match) LineOf(group string) int {
	return m.Line + strings.Count(m.Source()[m.Start:m.GroupStart(group)], "\n")
}

// Reader owns the block and inline grammars. It is configured once by
// extensions and then shared, read-only, by every page worker.
type Reader struct {
	block  grammar.Grammar[Component]
	inline grammar.Grammar[Component]
	log    zerolog.Logger
	diags  *diag.Collector
}

// New returns a reader with empty grammars.
func New(log zerolog.Logger, diags *diag.Collector) *Reader {
	if diags == nil {
		diags = diag.NewCollector()
	}
	return &Reader{log: log, diags: diags}
}

// AddBlock registers a block component at position (see package grammar).
func (r *Reader) AddBlock(name string, p grammar.Pattern, c Component, position string) error {
	if err := r.block.Add(name, p, c, position); err != nil {
		return fmt.Errorf("block grammar: %w", err)
	}
	return nil
}

// AddInline registers an inline component at position.
func (r *Reader) AddInline(name string, p grammar.Pattern, c Component, position string) error {
	if err := r.inline.Add(name, p, c, position); err != nil {
		return fmt.Errorf("inline grammar: %w", err)
	}
	return nil
}

// BlockNames returns the block entries in match order.
func (r *Reader) BlockNames() []string { return r.block.Names() }

// InlineNames returns the inline entries in match order.
func (r *Reader) InlineNames() []string { return r.inline.Names() }

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Normalize converts line endings to \n and expands tabs to four spaces.
func Normalize(text string) string {
	text = crlfOrCR.ReplaceAllString(text, "\n")
	return strings.ReplaceAll(text, "\t", "    ")
}

// Tokenize fills root with the tokens of text. It returns the scanner so
// callers can inspect the error count; it never fails on malformed input.
func (r *Reader) Tokenize(root *tokens.Token, text string, page *pages.Page) *Scanner {
	s := &Scanner{r: r, page: page}
	s.state = StateBlockScan
	s.scan(&r.block, root, Normalize(text), 1, false)
	s.state = StateInlineScan
	for i := 0; i < len(s.leaves); i++ {
		l := s.leaves[i]
		s.scan(&r.inline, l.parent, l.text, l.line, true)
	}
	s.leaves = nil
	s.state = StateDone
	r.log.Debug().Str("page", pageName(page)).Int("errors", s.errors).Msg("tokenized")
	return s
}

// State is the scanner lifecycle.
type State int

// Scanner states.
const (
	StateUnstarted State = iota
	StateBlockScan
	StateInlineScan
	StateDone
)

func (s State) String() string {
	switch s {
	case StateBlockScan:
		return "block"
	case StateInlineScan:
		return "inline"
	case StateDone:
		return "done"
	default:
		return "unstarted"
	}
}

type leaf struct {
	parent *tokens.Token
	text   string
	line   int
}

// Scanner is the private working state of one Tokenize call.
type Scanner struct {
	r      *Reader
	page   *pages.Page
	state  State
	leaves []leaf
	errors int
}

// State returns the current phase.
func (s *Scanner) State() State { return s.state }

// Errors returns the number of ErrorTokens produced.
func (s *Scanner) Errors() int { return s.errors }

// Block re-enters the block grammar on text beneath parent, immediately.
func (s *Scanner) Block(parent *tokens.Token, text string, line int) {
	s.scan(&s.r.block, parent, text, line, false)
}

// Inline schedules text for the inline phase, or scans it now if the inline
// phase is already running.
func (s *Scanner) Inline(parent *tokens.Token, text string, line int) {
	if s.state == StateInlineScan {
		s.scan(&s.r.inline, parent, text, line, true)
		return
	}
	s.leaves = append(s.leaves, leaf{parent: parent, text: text, line: line})
}

func (s *Scanner) scan(g *grammar.Grammar[Component], parent *tokens.Token, text string, line int, inline bool) {
	pos := 0
	for pos < len(text) {
		entry, gm, ok := g.Match(text, pos)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[pos:])
			s.fail(parent, text[pos:pos+size], line, fmt.Errorf("%w: %q", ErrNoMatch, text[pos:pos+size]), inline)
			line += strings.Count(text[pos:pos+size], "\n")
			pos += size
			continue
		}
		m := &Match{Match: gm, Name: entry.Name, Line: line, Scanner: s}
		s.create(entry.Component, parent, m, inline)
		line += strings.Count(text[pos:gm.End], "\n")
		pos = gm.End
	}
}

func (s *Scanner) create(c Component, parent *tokens.Token, m *Match, inline bool) {
	mark, queued := len(parent.Children()), len(s.leaves)
	tok, err := s.safeCreate(c, parent, m)
	if err != nil {
		// Leaves scheduled by the failed component belong to detached tokens.
		parent.Truncate(mark)
		s.leaves = s.leaves[:queued]
		s.fail(parent, m.Text(), m.Line, fmt.Errorf("%s: %w", m.Name, err), inline)
		return
	}
	if tok == nil {
		return
	}
	if tok.LocalInfo() == nil {
		tok.SetInfo(&tokens.Info{Line: m.Line, Raw: m.Text(), Pattern: m.Name})
	}
	if m.Has(GroupBlock) {
		s.Block(tok, m.Group(GroupBlock), m.LineOf(GroupBlock))
	}
	if m.Has(GroupInline) {
		s.Inline(tok, m.Group(GroupInline), m.LineOf(GroupInline))
	}
}

func (s *Scanner) safeCreate(c Component, parent *tokens.Token, m *Match) (tok *tokens.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.r.log.Debug().Str("stack", string(debug.Stack())).Msg("component panic")
			err = fmt.Errorf("%w: %v", ErrComponentPanic, r)
		}
	}()
	return c.CreateToken(parent, m, s.page)
}

func (s *Scanner) fail(parent *tokens.Token, raw string, line int, err error, inline bool) {
	s.errors++
	tokens.NewError(parent, raw, err.Error(), line, inline)
	d := diag.Diagnostic{
		Level:     diag.Error,
		Stage:     diag.StageTokenize,
		Page:      pageName(s.page),
		Line:      line,
		Construct: raw,
		Cause:     err.Error(),
	}
	logging.Report(s.r.log, d)
	s.r.diags.Add(d)
}

func pageName(p *pages.Page) string {
	if p == nil {
		return "<memory>"
	}
	return p.Local()
}
