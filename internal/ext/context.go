package ext

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// Context is the build-wide service object handed to every extension. Its
// registries are filled during composition and read-only afterwards; its
// mutable members are synchronized.
type Context struct {
	Log         zerolog.Logger
	Tree        *pages.Tree
	Commands    *command.Registry
	Counters    *Counters
	Headings    *HeadingIndex
	Diagnostics *diag.Collector
	// Renderer is the name of the active renderer.
	Renderer string
	// AST returns the cached token tree of any page, tokenizing it on first
	// use. Set by the translator.
	AST func(*pages.Page) (*tokens.Token, error)
}

// NewContext returns a context with empty shared state.
func NewContext(log zerolog.Logger, tree *pages.Tree, renderer string) *Context {
	return &Context{
		Log:         log,
		Tree:        tree,
		Commands:    command.NewRegistry(),
		Counters:    NewCounters(),
		Headings:    NewHeadingIndex(),
		Diagnostics: diag.NewCollector(),
		Renderer:    renderer,
	}
}

// Counters numbers floats and similar objects per page and prefix.
type Counters struct {
	mu     sync.Mutex
	counts map[counterKey]int
}

type counterKey struct{ page, prefix string }

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{counts: make(map[counterKey]int)}
}

// Next increments and returns the counter for (page, prefix), starting at 1.
func (c *Counters) Next(page, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := counterKey{page, prefix}
	c.counts[k]++
	return c.counts[k]
}

// Current returns the counter without incrementing it.
func (c *Counters) Current(page, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[counterKey{page, prefix}]
}

// ResetPage zeroes every counter of one page.
func (c *Counters) ResetPage(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.counts {
		if k.page == page {
			delete(c.counts, k)
		}
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.mu.Lock()
	c.counts = make(map[counterKey]int)
	c.mu.Unlock()
}

// Heading is one indexed heading.
type Heading struct {
	Page  string
	ID    string
	Text  string
	Level int
}

// HeadingIndex is the sitewide table of headings, filled after each page
// is tokenized and read by cross-page features.
type HeadingIndex struct {
	mu     sync.RWMutex
	byPage map[string][]Heading
}

// NewHeadingIndex returns an empty index.
func NewHeadingIndex() *HeadingIndex {
	return &HeadingIndex{byPage: make(map[string][]Heading)}
}

// Set replaces the headings of one page.
func (h *HeadingIndex) Set(page string, headings []Heading) {
	h.mu.Lock()
	h.byPage[page] = headings
	h.mu.Unlock()
}

// Page returns the headings of one page in document order.
func (h *HeadingIndex) Page(page string) []Heading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Heading(nil), h.byPage[page]...)
}

// Lookup finds a heading by page and id.
func (h *HeadingIndex) Lookup(page, id string) (Heading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hd := range h.byPage[page] {
		if hd.ID == id {
			return hd, true
		}
	}
	return Heading{}, false
}

// All returns every heading ordered by page then document order.
func (h *HeadingIndex) All() []Heading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.byPage))
	for p := range h.byPage {
		names = append(names, p)
	}
	sort.Strings(names)
	var out []Heading
	for _, p := range names {
		out = append(out, h.byPage[p]...)
	}
	return out
}

// Reset empties the index.
func (h *HeadingIndex) Reset() {
	h.mu.Lock()
	h.byPage = make(map[string][]Heading)
	h.mu.Unlock()
}
