package pages

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewTree([]Source{
		{Local: "index.md", Text: "# Home"},
		{Local: "guide/intro.md", Text: "# Intro"},
		{Local: "guide/setup/install.md", Text: "# Install"},
		{Local: "guide/diagram.svg"},
		{Local: "api/intro.md", Text: "# API"},
	})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	return tree
}

func locals[N Node](ns []N) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Local()
	}
	return out
}

func TestNewTree(t *testing.T) {
	t.Parallel()

	tree := testTree(t)

	wantPages := []string{"api/intro.md", "guide/intro.md", "guide/setup/install.md", "index.md"}
	if diff := cmp.Diff(wantPages, locals(tree.Pages())); diff != "" {
		t.Errorf("Pages() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"guide/diagram.svg"}, locals(tree.Files())); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}

	n, ok := tree.Get("guide/setup")
	if !ok {
		t.Fatal("implied directory guide/setup missing")
	}
	d, ok := n.(*Directory)
	if !ok || len(d.Children()) != 1 {
		t.Errorf("guide/setup = %T with %d children", n, len(d.Children()))
	}
	if d.Parent().Local() != "guide" || d.Parent().Parent() != tree.Root() {
		t.Error("directory parents not linked to the root")
	}
}

func TestNewTree_Duplicate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sources []Source
	}{
		{"same page twice", []Source{{Local: "a.md"}, {Local: "./a.md"}}},
		{"file then directory", []Source{{Local: "a"}, {Local: "a/b.md"}}},
		{"file then nested directory", []Source{{Local: "a"}, {Local: "a/b/c.md"}}},
		{"directory then file", []Source{{Local: "a/b.md"}, {Local: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewTree(tt.sources); !errors.Is(err, ErrDuplicate) {
				t.Errorf("NewTree() error = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestFindUnique(t *testing.T) {
	t.Parallel()

	tree := testTree(t)

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"exact", "guide/intro.md", "guide/intro.md", nil},
		{"suffix", "install.md", "guide/setup/install.md", nil},
		{"directory suffix", "setup/install.md", "guide/setup/install.md", nil},
		{"ambiguous", "intro.md", "", ErrAmbiguous},
		{"not found", "missing.md", "", ErrNotFound},
		{"partial name is not a suffix", "tall.md", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := tree.FindUnique(tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindUnique() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindUnique() unexpected error: %v", err)
			}
			if n.Local() != tt.want {
				t.Errorf("FindUnique() = %s, want %s", n.Local(), tt.want)
			}
		})
	}
}

func TestResolve_PrefersSibling(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	from, _ := tree.Get("guide/setup/install.md")

	n, err := tree.Resolve(from, "../intro.md")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if n.Local() != "guide/intro.md" {
		t.Errorf("Resolve() = %s, want guide/intro.md", n.Local())
	}
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	get := func(local string) Node {
		n, ok := tree.Get(local)
		if !ok {
			t.Fatalf("missing %s", local)
		}
		return n
	}

	tests := []struct {
		name     string
		to, from string
		ext      string
		want     string
	}{
		{"same directory", "guide/diagram.svg", "guide/intro.md", "", "diagram.svg"},
		{"page to page", "api/intro.md", "guide/intro.md", ".html", "../api/intro.html"},
		{"from root", "guide/setup/install.md", "index.md", ".html", "guide/setup/install.html"},
		{"deeper to shallower", "index.md", "guide/setup/install.md", ".html", "../../index.html"},
		{"from directory", "guide/intro.md", "guide", ".html", "intro.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RelativeTo(get(tt.to), get(tt.from), tt.ext); got != tt.want {
				t.Errorf("RelativeTo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPage_ASTCache(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	p := tree.Pages()[0]
	if _, ok := p.CachedAST(); ok {
		t.Fatal("new page should have no AST")
	}
	if got := p.Destination(".html"); got != "api/intro.html" {
		t.Errorf("Destination() = %q", got)
	}
	if got := len(Ancestors(p)); got != 2 {
		t.Errorf("Ancestors() = %d directories, want root and api", got)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"index.md":        "# Home\n",
		"guide/intro.md":  "# Intro\n",
		"guide/logo.png":  "png",
		".git/config":     "hidden",
		"guide/.draft.md": "hidden",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	srcs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	got := make(map[string]string, len(srcs))
	for _, s := range srcs {
		got[s.Local] = s.Text
	}
	want := map[string]string{
		"index.md":       "# Home\n",
		"guide/intro.md": "# Intro\n",
		"guide/logo.png": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_Missing(t *testing.T) {
	t.Parallel()

	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Discover() error = %v, want ErrNotExist", err)
	}
}
