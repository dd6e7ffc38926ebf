package grammar

import (
	"regexp"
)

// Pattern recognizes a construct starting exactly at pos.
type Pattern interface {
	Match(text string, pos int) (*Match, bool)
}

// Match is a successful pattern application. Offsets are absolute in the
// scanned text.
type Match struct {
	Start, End int
	groups     map[string]span
	text       string
}

type span struct{ start, end int }

// NewMatch builds a match over text[start:end] for procedural patterns.
func NewMatch(text string, start, end int) *Match {
	return &Match{Start: start, End: end, text: text, groups: map[string]span{}}
}

// SetGroup records a named group at absolute offsets.
func (m *Match) SetGroup(name string, start, end int) {
	m.groups[name] = span{start, end}
}

// Text returns the whole matched span.
func (m *Match) Text() string { return m.text[m.Start:m.End] }

// Group returns the text captured by name, "" when absent.
func (m *Match) Group(name string) string {
	s, ok := m.groups[name]
	if !ok {
		return ""
	}
	return m.text[s.start:s.end]
}

// Has reports whether name participated in the match.
func (m *Match) Has(name string) bool {
	_, ok := m.groups[name]
	return ok
}

// GroupStart returns the absolute offset of a group, or Start when absent.
func (m *Match) GroupStart(name string) int {
	if s, ok := m.groups[name]; ok {
		return s.start
	}
	return m.Start
}

// Source returns the full text the match was taken from.
func (m *Match) Source() string { return m.text }

// Regexp is a Pattern backed by a regular expression anchored at the scan
// offset.
type Regexp struct {
	re *regexp.Regexp
}

// Regex compiles expr anchored with \A. It panics on invalid expressions;
// grammar patterns are fixed at build time.
func Regex(expr string) *Regexp {
	return &Regexp{re: regexp.MustCompile(`\A(?:` + expr + `)`)}
}

// Match implements Pattern.
func (r *Regexp) Match(text string, pos int) (*Match, bool) {
	loc := r.re.FindStringSubmatchIndex(text[pos:])
	if loc == nil {
		return nil, false
	}
	m := NewMatch(text, pos+loc[0], pos+loc[1])
	for i, name := range r.re.SubexpNames() {
		if name == "" || loc[2*i] < 0 {
			continue
		}
		m.SetGroup(name, pos+loc[2*i], pos+loc[2*i+1])
	}
	return m, true
}

// String returns the compiled expression.
func (r *Regexp) String() string { return r.re.String() }

// Func adapts a function to Pattern.
type Func func(text string, pos int) (*Match, bool)

// Match implements Pattern.
func (f Func) Match(text string, pos int) (*Match, bool) { return f(text, pos) }
