// Package dom holds small helpers for building and serializing HTML output
// trees with golang.org/x/net/html.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment returns a document node used as a container for output that is
// serialized child by child, without an <html><body> wrapper.
func Fragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// Element appends a new element to parent (when non-nil). attrs are key,
// value pairs; empty values are skipped and later keys replace earlier ones.
func Element(parent *html.Node, tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] != "" {
			SetAttr(n, attrs[i], attrs[i+1])
		}
	}
	if parent != nil {
		parent.AppendChild(n)
	}
	return n
}

// Text appends a text node. Escaping happens at render time.
func Text(parent *html.Node, s string) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: s}
	if parent != nil {
		parent.AppendChild(n)
	}
	return n
}

// Raw appends pre-rendered HTML by parsing it as a body fragment.
func Raw(parent *html.Node, content string) error {
	nodes, err := ParseFragment(content)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// ParseFragment parses content with a body context to avoid wrapping.
func ParseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), context)
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

// AddClass appends class names to n's class attribute.
func AddClass(n *html.Node, classes ...string) {
	cur, _ := Attr(n, "class")
	fields := strings.Fields(cur)
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !contains(fields, f) {
				fields = append(fields, f)
			}
		}
	}
	if len(fields) > 0 {
		SetAttr(n, "class", strings.Join(fields, " "))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Children returns the direct children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Count returns the number of direct children, used as a mark for Truncate.
func Count(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}

// Truncate removes the children of n from index mark onwards.
func Truncate(n *html.Node, mark int) {
	i := 0
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if i >= mark {
			n.RemoveChild(c)
		}
		c = next
		i++
	}
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Walk visits n and its descendants in pre-order.
func Walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Render serializes n. Document nodes render their children only.
func Render(n *html.Node) (string, error) {
	var buf strings.Builder
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
