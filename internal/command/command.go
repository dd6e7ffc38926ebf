// Package command implements the generic command syntax every non-core
// extension uses to add markup:
//
//	!name sub key=value ...          block form; key=value lines may follow,
//	more=value                       then content lines up to a blank line
//	content
//
//	!name! sub key=value ...         bang form; content runs to the balanced
//	content                          !name-end! line
//	!name-end!
//
//	[!name!sub key=value](content)   inline form
//
// A Registry resolves (name, sub) to a handler: the exact pair first, then
// (name, "*"), then (name, ext) when sub looks like a file name.
package command

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Wildcard is the subcommand matching any subcommand of a name.
const Wildcard = "*"

// Sentinel errors for command registration and dispatch.
var (
	ErrDuplicateCommand = errors.New("duplicate command")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnexpectedArgs   = errors.New("unexpected arguments")
	ErrUnterminated     = errors.New("unterminated command block")
)

// Command handles one or more (name, sub) pairs.
type Command interface {
	Name() string
	// Subcommands lists the handled subcommands: "" for none, Wildcard for
	// any, or file extensions such as "png".
	Subcommands() []string
	// Settings declares the accepted key=value settings beyond the common
	// id, class and style.
	Settings() settings.Schema
	CreateToken(parent *tokens.Token, inv *Invocation, page *pages.Page) (*tokens.Token, error)
}

// ArgsTaker is implemented by commands accepting free text between the
// subcommand and the first setting, such as a syntax path.
type ArgsTaker interface {
	AcceptsArgs() bool
}

// Invocation describes one parsed command occurrence.
type Invocation struct {
	Command     string
	Subcommand  string
	Args        string
	Settings    settings.Values
	Bang        bool // !name! ... !name-end! form
	Inline      bool
	Content     string
	ContentLine int
	Match       *reader.Match
}

// Scanner returns the scanner for re-entering content.
func (inv *Invocation) Scanner() *reader.Scanner { return inv.Match.Scanner }

// Line returns the source line of the command.
func (inv *Invocation) Line() int { return inv.Match.Line }

type key struct{ name, sub string }

// Registry maps (name, sub) pairs to handlers.
type Registry struct {
	mu       sync.RWMutex
	commands map[key]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[key]Command)}
}

// Add registers every pair of c. Any pair already present fails the whole
// call and leaves the registry unchanged.
func (r *Registry) Add(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := c.Subcommands()
	if len(subs) == 0 {
		subs = []string{""}
	}
	for _, sub := range subs {
		if _, dup := r.commands[key{c.Name(), sub}]; dup {
			return fmt.Errorf("%w: (%s, %q)", ErrDuplicateCommand, c.Name(), sub)
		}
	}
	for _, sub := range subs {
		r.commands[key{c.Name(), sub}] = c
	}
	return nil
}

// Lookup resolves a command occurrence.
func (r *Registry) Lookup(name, sub string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.commands[key{name, sub}]; ok {
		return c, nil
	}
	if c, ok := r.commands[key{name, Wildcard}]; ok {
		return c, nil
	}
	if ext := strings.TrimPrefix(path.Ext(sub), "."); ext != "" {
		if c, ok := r.commands[key{name, ext}]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: !%s %s (known: %s)", ErrUnknownCommand, name, sub, strings.Join(r.known(name), ", "))
}

// Pairs returns every registered pair as "name sub", sorted.
func (r *Registry) Pairs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.commands))
	for k := range r.commands {
		out = append(out, strings.TrimSpace(k.name+" "+k.sub))
	}
	sort.Strings(out)
	return out
}

func (r *Registry) known(name string) []string {
	var subs []string
	for k := range r.commands {
		if k.name == name {
			subs = append(subs, fmt.Sprintf("%q", k.sub))
		}
	}
	if len(subs) == 0 {
		return []string{"none"}
	}
	sort.Strings(subs)
	return subs
}
