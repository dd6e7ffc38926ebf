// Package latex is a minimal LaTeX output tree: commands, environments and
// text, serialized with escaping. It plays the role x/net/html plays for the
// HTML renderers.
package latex

import (
	"strings"
)

// Type is the node variant.
type Type int

// Node variants.
const (
	DocumentNode Type = iota
	CommandNode
	EnvironmentNode
	TextNode
	RawNode
)

// Node is one element of the tree.
type Node struct {
	Type     Type
	Name     string   // command or environment name
	Optional string   // [optional] argument, written unescaped
	Args     []string // leading {arguments}, written unescaped
	Text     string   // TextNode and RawNode content
	// Brace writes the children as a final {argument} of a command instead of
	// after it.
	Brace bool
	// Verbatim disables escaping for every descendant of an environment.
	Verbatim bool

	Parent   *Node
	Children []*Node
}

// NewDocument returns an empty container.
func NewDocument() *Node { return &Node{Type: DocumentNode} }

// Command appends \name[opt]{args...} to parent. Children become the final
// braced argument.
func Command(parent *Node, name string, args ...string) *Node {
	return appendNode(parent, &Node{Type: CommandNode, Name: name, Args: args, Brace: true})
}

// Bare appends a command whose children follow it, such as \item.
func Bare(parent *Node, name string, args ...string) *Node {
	return appendNode(parent, &Node{Type: CommandNode, Name: name, Args: args})
}

// Environment appends \begin{name}{args}...\end{name}.
func Environment(parent *Node, name string, args ...string) *Node {
	return appendNode(parent, &Node{Type: EnvironmentNode, Name: name, Args: args})
}

// Group appends a container whose children are written in sequence.
func Group(parent *Node) *Node {
	return appendNode(parent, &Node{Type: DocumentNode})
}

// String appends escaped text.
func String(parent *Node, text string) *Node {
	return appendNode(parent, &Node{Type: TextNode, Text: text})
}

// Raw appends text written as is.
func Raw(parent *Node, text string) *Node {
	return appendNode(parent, &Node{Type: RawNode, Text: text})
}

func appendNode(parent, n *Node) *Node {
	if parent != nil {
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}
	return n
}

// Count returns the number of children, used as a mark for Truncate.
func (n *Node) Count() int { return len(n.Children) }

// Truncate drops children from index mark onwards.
func (n *Node) Truncate(mark int) {
	if mark < len(n.Children) {
		n.Children = n.Children[:mark]
	}
}

func (n *Node) verbatim() bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Verbatim {
			return true
		}
	}
	return false
}

// Render serializes n and its descendants.
func Render(n *Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		if n.verbatim() {
			b.WriteString(n.Text)
		} else {
			b.WriteString(Escape(n.Text))
		}
	case RawNode:
		b.WriteString(n.Text)
	case CommandNode:
		b.WriteString(`\` + n.Name)
		writeArgs(b, n)
		if n.Brace {
			b.WriteByte('{')
			writeChildren(b, n)
			b.WriteByte('}')
		} else {
			if len(n.Args) == 0 && n.Optional == "" {
				b.WriteByte(' ')
			}
			writeChildren(b, n)
		}
	case EnvironmentNode:
		b.WriteString("\n\\begin{" + n.Name + "}")
		writeArgs(b, n)
		b.WriteByte('\n')
		writeChildren(b, n)
		b.WriteString("\n\\end{" + n.Name + "}\n")
	default:
		writeChildren(b, n)
	}
}

func writeArgs(b *strings.Builder, n *Node) {
	if n.Optional != "" {
		b.WriteString("[" + n.Optional + "]")
	}
	for _, a := range n.Args {
		b.WriteString("{" + a + "}")
	}
}

func writeChildren(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		write(b, c)
	}
}

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape protects LaTeX special characters in text.
func Escape(s string) string { return escaper.Replace(s) }
