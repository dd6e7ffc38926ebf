// Package tokens implements the typed abstract syntax tree produced by the
// reader and consumed by the renderers.
//
// Every node is a *Token whose Kind declares the properties it may carry.
// Properties are validated when set, so a token that exists is always
// schema-valid. Source locations (Info) are inherited from the nearest
// ancestor that defines one.
package tokens

import (
	"fmt"
	"strings"
)

// Props is the property set passed to Kind.New.
type Props map[string]any

// Info locates the source construct a token came from.
type Info struct {
	Line    int    // 1-based line in the page source
	Raw     string // matched source text
	Pattern string // grammar entry name that produced the token
}

// Owner is the page that owns a token tree. Implemented by *pages.Page.
type Owner interface {
	Local() string
}

// Token is one AST node.
type Token struct {
	kind     *Kind
	values   []any
	parent   *Token
	children []*Token
	info     *Info
	owner    Owner
}

// Root is the kind of every page's top-level token.
var Root = NewKind("Root")

// NewRoot returns an empty root token owned by owner.
func NewRoot(owner Owner) *Token {
	t := Root.MustNew(nil, nil)
	t.owner = owner
	t.info = &Info{Line: 1}
	return t
}

// Kind returns the token's type.
func (t *Token) Kind() *Kind { return t.kind }

// Name returns the type tag.
func (t *Token) Name() string { return t.kind.name }

// Is reports whether the token has kind k.
func (t *Token) Is(k *Kind) bool { return t != nil && t.kind == k }

// Get returns a property value, or nil for undeclared names.
func (t *Token) Get(name string) any {
	i, ok := t.kind.index[name]
	if !ok {
		return nil
	}
	return t.values[i]
}

// String returns a string property ("" if unset or not a string).
func (t *Token) String(name string) string {
	s, _ := t.Get(name).(string)
	return s
}

// Int returns an int property.
func (t *Token) Int(name string) int {
	n, _ := t.Get(name).(int)
	return n
}

// Float returns a float64 property.
func (t *Token) Float(name string) float64 {
	f, _ := t.Get(name).(float64)
	return f
}

// Bool returns a bool property.
func (t *Token) Bool(name string) bool {
	b, _ := t.Get(name).(bool)
	return b
}

// Strings returns a []string property.
func (t *Token) Strings(name string) []string {
	s, _ := t.Get(name).([]string)
	return s
}

// Set validates and stores a property value.
func (t *Token) Set(name string, v any) error {
	i, ok := t.kind.index[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, t.kind.name, name)
	}
	cv, err := coerce(t.kind.props[i], v)
	if err != nil {
		return fmt.Errorf("%s: %w", t.kind.name, err)
	}
	t.values[i] = cv
	return nil
}

// Parent returns the parent token, nil for roots and detached tokens.
func (t *Token) Parent() *Token { return t.parent }

// Children returns the ordered children. The slice must not be modified.
func (t *Token) Children() []*Token { return t.children }

// Root walks up to the top-most ancestor.
func (t *Token) Root() *Token {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// Owner returns the page owning the tree, found on the root.
func (t *Token) Owner() Owner {
	return t.Root().owner
}

// Info returns the nearest source locator on the ancestor chain.
func (t *Token) Info() *Info {
	for n := t; n != nil; n = n.parent {
		if n.info != nil {
			return n.info
		}
	}
	return nil
}

// LocalInfo returns the locator set on this token only.
func (t *Token) LocalInfo() *Info { return t.info }

// SetInfo overrides the locator for this token and its undecorated descendants.
func (t *Token) SetInfo(info *Info) { t.info = info }

// Line is shorthand for Info().Line, 0 when unknown.
func (t *Token) Line() int {
	if info := t.Info(); info != nil {
		return info.Line
	}
	return 0
}

// SetParent moves t under p (nil detaches). Moving a token beneath itself
// or one of its descendants fails with ErrCycle.
func (t *Token) SetParent(p *Token) error {
	for n := p; n != nil; n = n.parent {
		if n == t {
			return fmt.Errorf("%w: %s under %s", ErrCycle, t.kind.name, p.kind.name)
		}
	}
	t.detach()
	if p != nil {
		p.append(t)
	}
	return nil
}

// Remove detaches t from its parent.
func (t *Token) Remove() { t.detach() }

// Truncate drops children from index n onwards.
func (t *Token) Truncate(n int) {
	if n >= len(t.children) {
		return
	}
	for _, c := range t.children[n:] {
		c.parent = nil
	}
	t.children = t.children[:n]
}

func (t *Token) append(c *Token) {
	c.parent = t
	t.children = append(t.children, c)
}

func (t *Token) detach() {
	p := t.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == t {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	t.parent = nil
}

// Walk visits t and its descendants depth-first pre-order. Returning false
// from fn skips the visited token's children.
func (t *Token) Walk(fn func(*Token) bool) {
	if !fn(t) {
		return
	}
	for _, c := range t.children {
		c.Walk(fn)
	}
}

// Find returns every descendant (including t) of kind k in pre-order.
func (t *Token) Find(k *Kind) []*Token {
	var out []*Token
	t.Walk(func(n *Token) bool {
		if n.kind == k {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Text concatenates the "content" property of t and its descendants.
func (t *Token) Text() string {
	var b strings.Builder
	t.Walk(func(n *Token) bool {
		if s, ok := n.Get("content").(string); ok {
			b.WriteString(s)
		}
		return true
	})
	return b.String()
}

// Dump renders an indented outline of the tree, one token per line.
func (t *Token) Dump() string {
	var b strings.Builder
	var rec func(n *Token, depth int)
	rec = func(n *Token, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.kind.name)
		for i, p := range n.kind.props {
			v := n.values[i]
			if v == nil {
				continue
			}
			scalar := p.Type != TypeStrings && p.Type != TypeAny
			if scalar && v == p.Default {
				continue
			}
			fmt.Fprintf(&b, " %s=%v", p.Name, v)
		}
		b.WriteByte('\n')
		for _, c := range n.children {
			rec(c, depth+1)
		}
	}
	rec(t, 0)
	return b.String()
}
