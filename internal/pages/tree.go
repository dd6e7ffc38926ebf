package pages

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors for tree lookups.
var (
	ErrNotFound  = errors.New("page not found")
	ErrAmbiguous = errors.New("ambiguous page reference")
	ErrDuplicate = errors.New("duplicate source path")
)

// Source is one input supplied by discovery: absolute path, local path and
// (for pages) UTF-8 text.
type Source struct {
	Abs   string
	Local string
	Text  string
}

// Tree is the fixed page hierarchy of one build.
type Tree struct {
	root  *Directory
	nodes map[string]Node
	pages []*Page
	files []*File
}

// NewTree builds the tree from sources. Sources whose local path ends in
// PageExtension become pages, the rest files; directories are implied.
func NewTree(sources []Source) (*Tree, error) {
	t := &Tree{
		root:  &Directory{base: base{name: "", local: "."}},
		nodes: make(map[string]Node),
	}
	for _, s := range sources {
		local := path.Clean(filepath.ToSlash(s.Local))
		if _, dup := t.nodes[local]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, local)
		}
		parent, err := t.mkdirAll(path.Dir(local))
		if err != nil {
			return nil, err
		}
		b := base{name: path.Base(local), local: local, source: s.Abs, parent: parent}

		var n Node
		if strings.HasSuffix(local, PageExtension) {
			p := &Page{base: b, text: s.Text}
			t.pages = append(t.pages, p)
			n = p
		} else {
			f := &File{base: b}
			t.files = append(t.files, f)
			n = f
		}
		parent.children = append(parent.children, n)
		t.nodes[local] = n
	}
	sort.Slice(t.pages, func(i, j int) bool { return t.pages[i].local < t.pages[j].local })
	sort.Slice(t.files, func(i, j int) bool { return t.files[i].local < t.files[j].local })
	return t, nil
}

// mkdirAll returns the directory at dir, creating it and its parents. A
// file already holding one of those paths is a duplicate.
func (t *Tree) mkdirAll(dir string) (*Directory, error) {
	if dir == "." || dir == "" {
		return t.root, nil
	}
	if n, ok := t.nodes[dir]; ok {
		if d, ok := n.(*Directory); ok {
			return d, nil
		}
		return nil, fmt.Errorf("%w: %s is a file and a directory", ErrDuplicate, dir)
	}
	parent, err := t.mkdirAll(path.Dir(dir))
	if err != nil {
		return nil, err
	}
	d := &Directory{base: base{name: path.Base(dir), local: dir, parent: parent}}
	parent.children = append(parent.children, d)
	t.nodes[dir] = d
	return d, nil
}

// Root returns the top directory.
func (t *Tree) Root() *Directory { return t.root }

// Pages returns every page sorted by local path.
func (t *Tree) Pages() []*Page { return t.pages }

// Files returns every non-markup file sorted by local path.
func (t *Tree) Files() []*File { return t.files }

// Get returns the node at an exact local path.
func (t *Tree) Get(local string) (Node, bool) {
	n, ok := t.nodes[path.Clean(local)]
	return n, ok
}

// Find returns every node whose local path equals name or ends with
// "/"+name, sorted by local path.
func (t *Tree) Find(name string) []Node {
	name = strings.TrimPrefix(path.Clean(name), "/")
	var out []Node
	for local, n := range t.nodes {
		if local == name || strings.HasSuffix(local, "/"+name) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Local() < out[j].Local() })
	return out
}

// FindUnique resolves name to exactly one node. Zero matches yields
// ErrNotFound, several yields ErrAmbiguous naming every candidate.
func (t *Tree) FindUnique(name string) (Node, error) {
	found := t.Find(name)
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case 1:
		return found[0], nil
	}
	locals := make([]string, len(found))
	for i, n := range found {
		locals[i] = n.Local()
	}
	return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, name, strings.Join(locals, ", "))
}

// Resolve looks name up relative to from first (exact path), then falls back
// to the unique-match search.
func (t *Tree) Resolve(from Node, name string) (Node, error) {
	if !strings.HasPrefix(name, "/") {
		if n, ok := t.Get(path.Join(path.Dir(from.Local()), name)); ok {
			return n, nil
		}
	}
	return t.FindUnique(name)
}

// Discover walks root and returns sources for every regular file, skipping
// hidden files and directories. Page text is read eagerly.
func Discover(root string) ([]Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving source root: %w", err)
	}
	var out []Source
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if p != abs && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		src := Source{Abs: p, Local: filepath.ToSlash(rel)}
		if strings.HasSuffix(p, PageExtension) {
			data, err := os.ReadFile(p) // #nosec G304 -- discovered path
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			src.Text = string(data)
		}
		out = append(out, src)
		return nil
	})
	return out, err
}
