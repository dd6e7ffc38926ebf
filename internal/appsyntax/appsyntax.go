// Package appsyntax reads the syntax tree of the documented application:
// its objects, their parameters and grouping tags. The tree is produced by
// an external extractor run against the application build artifact and
// cached as JSON next to the build, keyed by the artifact's modification
// time so a rebuilt application invalidates the cache.
package appsyntax

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("syntax node not found")
	ErrInvalidTree = errors.New("invalid syntax tree")
)

// Parameter is one typed input parameter of a syntax node.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
	Group       string `json:"group,omitempty"`
}

// Node is one object of the application syntax.
type Node struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Groups      []string    `json:"groups,omitempty"`
	Children    []*Node     `json:"children,omitempty"`

	parent *Node
	path   string
}

// Path returns the absolute slash path of the node, "/" for the root.
func (n *Node) Path() string { return n.path }

// Parent returns the enclosing node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Parameter returns the named parameter.
func (n *Node) Parameter(name string) (Parameter, bool) {
	for _, p := range n.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterGroups returns the parameters grouped by Group, groups sorted
// with the unnamed group first.
func (n *Node) ParameterGroups() ([]string, map[string][]Parameter) {
	byGroup := make(map[string][]Parameter)
	for _, p := range n.Parameters {
		byGroup[p.Group] = append(byGroup[p.Group], p)
	}
	names := make([]string, 0, len(byGroup))
	for g := range byGroup {
		names = append(names, g)
	}
	sort.Strings(names)
	return names, byGroup
}

// Tree is a loaded syntax tree indexed by path.
type Tree struct {
	root  *Node
	index map[string]*Node
}

// NewTree indexes root. Sibling names must be unique.
func NewTree(root *Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTree)
	}
	t := &Tree{root: root, index: make(map[string]*Node)}
	if err := t.add(root, nil, "/"); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) add(n, parent *Node, p string) error {
	if _, dup := t.index[p]; dup {
		return fmt.Errorf("%w: duplicate node %s", ErrInvalidTree, p)
	}
	n.parent, n.path = parent, p
	t.index[p] = n
	for _, c := range n.Children {
		if c == nil || c.Name == "" || strings.Contains(c.Name, "/") {
			return fmt.Errorf("%w: bad child name under %s", ErrInvalidTree, p)
		}
		if err := t.add(c, n, path.Join(p, c.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Find returns the node at an absolute path such as /Kernels/Diffusion.
func (t *Tree) Find(p string) (*Node, error) {
	if n, ok := t.index[path.Clean("/"+p)]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
}

// FindParameter resolves /path/to/node/param to the node and parameter.
func (t *Tree) FindParameter(p string) (*Node, Parameter, error) {
	dir, name := path.Split(path.Clean("/" + p))
	n, err := t.Find(dir)
	if err != nil {
		return nil, Parameter{}, err
	}
	param, ok := n.Parameter(name)
	if !ok {
		return nil, Parameter{}, fmt.Errorf("%w: parameter %q of %s", ErrNotFound, name, n.Path())
	}
	return n, param, nil
}

// Parse decodes a JSON syntax dump.
func Parse(data []byte) (*Tree, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTree, err)
	}
	return NewTree(&root)
}

// Extractor produces the JSON syntax dump of an application artifact.
type Extractor interface {
	Extract(ctx context.Context, artifact string) ([]byte, error)
}

// FileExtractor reads a dump written beforehand by the application.
type FileExtractor struct {
	Path string
}

// Extract implements Extractor.
func (f FileExtractor) Extract(_ context.Context, _ string) ([]byte, error) {
	data, err := os.ReadFile(f.Path) // #nosec G304 -- configured dump path
	if err != nil {
		return nil, fmt.Errorf("reading syntax dump: %w", err)
	}
	return data, nil
}

// Load returns the syntax tree of artifact, from the cache in cacheDir when
// the artifact has not changed since the cache was written, otherwise from
// x, refreshing the cache.
func Load(ctx context.Context, cacheDir, artifact string, x Extractor) (*Tree, error) {
	info, err := os.Stat(artifact)
	if err != nil {
		return nil, fmt.Errorf("application artifact: %w", err)
	}
	cache := filepath.Join(cacheDir, "appsyntax-"+strconv.FormatInt(info.ModTime().UnixNano(), 10)+".json")
	if data, err := os.ReadFile(cache); err == nil { // #nosec G304 -- cache path built above
		if t, err := Parse(data); err == nil {
			return t, nil
		}
	}

	data, err := x.Extract(ctx, artifact)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := writeCache(cacheDir, cache, data); err != nil {
		return nil, err
	}
	return t, nil
}

// writeCache replaces older cache files with the new one.
func writeCache(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating syntax cache: %w", err)
	}
	old, _ := filepath.Glob(filepath.Join(dir, "appsyntax-*.json"))
	for _, o := range old {
		_ = os.Remove(o)
	}
	if err := os.WriteFile(name, data, 0o600); err != nil {
		return fmt.Errorf("writing syntax cache: %w", err)
	}
	return nil
}
