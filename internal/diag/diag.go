// Package diag collects the errors and warnings raised while a build
// tokenizes and renders pages, and formats them as boxed diagnostics.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Level is the severity of a diagnostic.
type Level int

// Severity levels.
const (
	Warning Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "ERROR"
	}
	return "WARNING"
}

// Stage identifies where a diagnostic was raised.
type Stage string

// Build stages.
const (
	StageConfig   Stage = "config"
	StageTokenize Stage = "tokenize"
	StageRender   Stage = "render"
	StageWrite    Stage = "write"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Level     Level
	Stage     Stage
	Page      string
	Line      int
	Construct string
	Cause     string
}

// maxConstructWidth caps the source excerpt shown in a box.
const maxConstructWidth = 72

// Box formats the diagnostic as a framed multi-line message.
func (d Diagnostic) Box() string {
	loc := d.Page
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.Page, d.Line)
	}
	lines := []string{
		fmt.Sprintf("%s (%s) %s", d.Level, d.Stage, loc),
	}
	if c := excerpt(d.Construct); c != "" {
		lines = append(lines, "construct: "+c)
	}
	for _, l := range strings.Split(d.Cause, "\n") {
		lines = append(lines, "cause: "+l)
	}

	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", width+2) + "+\n")
	for _, l := range lines {
		b.WriteString("| " + l + strings.Repeat(" ", width-len([]rune(l))) + " |\n")
	}
	b.WriteString("+" + strings.Repeat("-", width+2) + "+")
	return b.String()
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if r := []rune(s); len(r) > maxConstructWidth {
		s = string(r[:maxConstructWidth]) + "..."
	}
	return s
}

// Collector accumulates diagnostics from concurrent page workers.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Add records d.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Counts returns the number of errors and warnings recorded so far.
func (c *Collector) Counts() (errs, warns int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.items {
		if d.Level == Error {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

// Items returns the diagnostics ordered by page then line.
func (c *Collector) Items() []Diagnostic {
	c.mu.Lock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	c.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// ForPage returns the diagnostics recorded for one page.
func (c *Collector) ForPage(local string) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Items() {
		if d.Page == local {
			out = append(out, d)
		}
	}
	return out
}

// Reset drops every recorded diagnostic.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
