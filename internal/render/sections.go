package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
)

// Collapsible states for one heading level.
const (
	CollapseNone   = "none"
	CollapseOpen   = "open"
	CollapseClosed = "close"
)

// DetailsAttr is the heading attribute overriding the configured state.
const DetailsAttr = "data-details"

// Collapsible holds one state per heading level, index 0 for h1.
type Collapsible [6]string

// BuildSections regroups the flat children of root into nested <section>
// elements by heading level. The root acts as an implicit level-0 section
// for content preceding the first heading. A heading closes every open
// section of the same or a deeper level, so skipped levels (h1 then h3)
// nest directly and a shallower heading ascends as far as needed.
//
// Sections whose level is configured open or close (or whose heading says
// so through data-details) wrap their content in <details><summary>.
func BuildSections(root *html.Node, cfg Collapsible) {
	type frame struct {
		level int
		node  *html.Node
	}
	children := dom.Children(root)
	for _, c := range children {
		root.RemoveChild(c)
	}

	stack := []frame{{0, root}}
	var sections []frame
	for _, c := range children {
		level := headingLevel(c)
		if level == 0 {
			stack[len(stack)-1].node.AppendChild(c)
			continue
		}
		for stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		sec := dom.Element(stack[len(stack)-1].node, "section", "data-section-level", strconv.Itoa(level))
		sec.AppendChild(c)
		stack = append(stack, frame{level, sec})
		sections = append(sections, frame{level, sec})
	}

	for _, s := range sections {
		collapse(s.node, s.level, cfg)
	}
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if l := int(n.Data[1] - '0'); l >= 1 && l <= 6 {
		return l
	}
	return 0
}

func collapse(sec *html.Node, level int, cfg Collapsible) {
	heading := sec.FirstChild
	state := cfg[level-1]
	if v, ok := dom.Attr(heading, DetailsAttr); ok {
		state = v
		dom.RemoveAttr(heading, DetailsAttr)
	}
	if state != CollapseOpen && state != CollapseClosed {
		return
	}

	details := &html.Node{Type: html.ElementNode, Data: "details"}
	dom.AddClass(details, "section-details")
	if state == CollapseOpen {
		dom.SetAttr(details, "open", "open")
	}
	summary := dom.Element(details, "summary")
	for _, c := range dom.Children(sec) {
		sec.RemoveChild(c)
		if c == heading {
			summary.AppendChild(c)
			continue
		}
		details.AppendChild(c)
	}
	sec.AppendChild(details)
}
