// Package pages models the tree of source files a build compiles.
//
// The tree mirrors the source hierarchy: directories hold pages (markup
// sources that are tokenized and rendered) and files (copied verbatim). Its
// shape is fixed for one build. Each Page caches the AST of the current build
// generation so cross-page queries and the page's own render share one
// tokenize pass.
package pages

import (
	"path"
	"strings"
	"sync"

	"github.com/alnah/go-simdoc/internal/tokens"
)

// PageExtension is the extension of markup sources.
const PageExtension = ".md"

// Node is any member of the tree.
type Node interface {
	Name() string   // base name
	Local() string  // slash-separated path relative to the source root
	Source() string // absolute path on disk, empty for in-memory sources
	Parent() *Directory
}

type base struct {
	name   string
	local  string
	source string
	parent *Directory
}

func (b *base) Name() string { return b.name }
func (b *base) Local() string { return b.local }
func (b *base) Source() string { return b.source }
func (b *base) Parent() *Directory { return b.parent }
func (b *base) setParent(d *Directory) { b.parent = d }

// Directory is an interior node.
type Directory struct {
	base
	children []Node
}

// Children returns the direct children in insertion order.
func (d *Directory) Children() []Node { return d.children }

// File is a non-markup source copied to the destination unchanged.
type File struct {
	base
}

// Page is a markup source.
type Page struct {
	base
	text string

	mu  sync.RWMutex
	ast *tokens.Token
}

// Text returns the page source.
func (p *Page) Text() string { return p.text }

// Destination returns the output path for a renderer extension such as
// ".html", replacing the markup extension.
func (p *Page) Destination(ext string) string {
	return strings.TrimSuffix(p.local, PageExtension) + ext
}

// CachedAST returns the AST of the current generation, if built.
func (p *Page) CachedAST() (*tokens.Token, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ast, p.ast != nil
}

// StoreAST records the AST for the current generation.
func (p *Page) StoreAST(ast *tokens.Token) {
	p.mu.Lock()
	p.ast = ast
	p.mu.Unlock()
}

// ResetAST drops the cached AST so the next build re-tokenizes the page.
func (p *Page) ResetAST() {
	p.mu.Lock()
	p.ast = nil
	p.mu.Unlock()
}

// Ancestors returns the directories from the root down to n's parent.
func Ancestors(n Node) []*Directory {
	var out []*Directory
	for d := n.Parent(); d != nil; d = d.Parent() {
		out = append([]*Directory{d}, out...)
	}
	return out
}

// RelativeTo returns the slash path leading from the directory containing
// from to to. Pages are addressed by their destination with ext.
func RelativeTo(to, from Node, ext string) string {
	target := to.Local()
	if p, ok := to.(*Page); ok && ext != "" {
		target = p.Destination(ext)
	}
	fromDir := path.Dir(from.Local())
	if _, ok := from.(*Directory); ok {
		fromDir = from.Local()
	}
	return relPath(fromDir, target)
}

// relPath computes a relative slash path from directory dir to target.
func relPath(dir, target string) string {
	if dir == "." || dir == "" {
		return target
	}
	ds := strings.Split(dir, "/")
	ts := strings.Split(target, "/")
	i := 0
	for i < len(ds) && i < len(ts)-1 && ds[i] == ts[i] {
		i++
	}
	parts := make([]string, 0, len(ds)-i+len(ts)-i)
	for range ds[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, ts[i:]...)
	return strings.Join(parts, "/")
}
