// Package exttest builds small sites in memory for extension tests.
package exttest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/logging"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/translator"
)

// Site is the result of one in-memory build.
type Site struct {
	Translator *translator.Translator
	Sink       *translator.MemorySink
	Report     translator.Report
	// Dir holds the source files.
	Dir string
}

// Build writes files beneath a temporary directory, composes exts for the
// named renderer and renders every page to memory. Composition errors fail
// the test; page failures are left in the report.
func Build(tb testing.TB, renderer string, files map[string]string, exts ...ext.Extension) *Site {
	tb.Helper()
	dir := tb.TempDir()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var sources []pages.Source
	for _, name := range names {
		abs := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
			tb.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(files[name]), 0o600); err != nil {
			tb.Fatal(err)
		}
		src := pages.Source{Abs: abs, Local: name}
		if strings.HasSuffix(name, pages.PageExtension) {
			src.Text = files[name]
		}
		sources = append(sources, src)
	}

	tree, err := pages.NewTree(sources)
	if err != nil {
		tb.Fatalf("NewTree: %v", err)
	}
	tr, err := translator.New(tree, exts, translator.Options{Log: logging.Nop(), Renderer: renderer, Workers: 2})
	if err != nil {
		tb.Fatalf("translator.New: %v", err)
	}
	sink := translator.NewMemorySink()
	rep, err := tr.Build(context.Background(), sink)
	if err != nil {
		tb.Fatalf("Build: %v", err)
	}
	return &Site{Translator: tr, Sink: sink, Report: rep, Dir: dir}
}

// Output returns the rendered output stored at local, failing the test when
// there is none.
func (s *Site) Output(tb testing.TB, local string) string {
	tb.Helper()
	out, ok := s.Sink.Get(local)
	if !ok {
		tb.Fatalf("no output %s; have %v (failed: %v)", local, s.Sink.Names(), s.Report.Failed())
	}
	return out
}

// Contains fails the test for every want missing from the output at local.
func (s *Site) Contains(tb testing.TB, local string, want ...string) {
	tb.Helper()
	out := s.Output(tb, local)
	for _, w := range want {
		if !strings.Contains(out, w) {
			tb.Errorf("%s missing %q\n%s", local, w, out)
		}
	}
}

// Lacks fails the test for every unwanted string present in the output at
// local.
func (s *Site) Lacks(tb testing.TB, local string, unwanted ...string) {
	tb.Helper()
	out := s.Output(tb, local)
	for _, u := range unwanted {
		if strings.Contains(out, u) {
			tb.Errorf("%s contains %q\n%s", local, u, out)
		}
	}
}
