// Package grammar holds the ordered component registries the reader scans
// with. Entries are tried in order at each offset and the first match wins;
// order is the only priority mechanism, so plugins place themselves relative
// to named entries with a small position language:
//
//	_begin   insert before every entry
//	_end     append after every entry
//	<name    insert immediately before name
//	>name    insert immediately after name
//	=name    replace name (the replacement keeps the new entry's name)
package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry edits.
var (
	ErrDuplicateName   = errors.New("duplicate grammar entry")
	ErrUnknownPosition = errors.New("unknown grammar position")
)

// Position keywords.
const (
	Begin = "_begin"
	End   = "_end"
)

// Entry is one registered rule.
type Entry[T any] struct {
	Name      string
	Pattern   Pattern
	Component T
}

// Grammar is an ordered list of entries.
type Grammar[T any] struct {
	entries []Entry[T]
}

// Add inserts an entry at position.
func (g *Grammar[T]) Add(name string, p Pattern, c T, position string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrDuplicateName)
	}
	e := Entry[T]{Name: name, Pattern: p, Component: c}

	if position == "" {
		position = End
	}
	if strings.HasPrefix(position, "=") {
		i := g.index(position[1:])
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownPosition, position)
		}
		if name != position[1:] && g.index(name) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		g.entries[i] = e
		return nil
	}

	if g.index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	var at int
	switch {
	case position == Begin:
		at = 0
	case position == End:
		at = len(g.entries)
	case strings.HasPrefix(position, "<"):
		at = g.index(position[1:])
	case strings.HasPrefix(position, ">"):
		at = g.index(position[1:])
		if at >= 0 {
			at++
		}
	default:
		at = -1
	}
	if at < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPosition, position)
	}

	g.entries = append(g.entries, Entry[T]{})
	copy(g.entries[at+1:], g.entries[at:])
	g.entries[at] = e
	return nil
}

// Has reports whether name is registered.
func (g *Grammar[T]) Has(name string) bool { return g.index(name) >= 0 }

// Names returns the entry names in match order.
func (g *Grammar[T]) Names() []string {
	names := make([]string, len(g.entries))
	for i, e := range g.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (g *Grammar[T]) Len() int { return len(g.entries) }

// Match tries each entry at pos and returns the first non-empty match.
func (g *Grammar[T]) Match(text string, pos int) (Entry[T], *Match, bool) {
	for _, e := range g.entries {
		m, ok := e.Pattern.Match(text, pos)
		if !ok || m.End <= m.Start {
			continue
		}
		return e, m, true
	}
	return Entry[T]{}, nil, false
}

func (g *Grammar[T]) index(name string) int {
	for i, e := range g.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}
