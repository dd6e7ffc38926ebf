package ext

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/logging"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// fake records Extend calls into a shared log.
type fake struct {
	Base
	log     *[]string
	command string
	resets  *int
}

func (f fake) Extend(ctx *Context, _ *reader.Reader, _ render.Renderer) error {
	if f.log != nil {
		*f.log = append(*f.log, f.ExtName)
	}
	if f.command != "" {
		return ctx.Commands.Add(noopCommand{f.command})
	}
	return nil
}

type resettable struct{ fake }

func (r resettable) Reinit() { *r.resets++ }

type noopCommand struct{ name string }

func (c noopCommand) Name() string              { return c.name }
func (c noopCommand) Subcommands() []string     { return nil }
func (c noopCommand) Settings() settings.Schema { return nil }
func (c noopCommand) CreateToken(*tokens.Token, *command.Invocation, *pages.Page) (*tokens.Token, error) {
	return nil, nil
}

func ext(name string, requires ...string) fake {
	return fake{Base: Base{ExtName: name, ExtRequires: requires}}
}

func names(exts []Extension) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = e.Name()
	}
	return out
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		exts    []Extension
		want    []string
		wantErr error
	}{
		{
			name: "independent keep caller order",
			exts: []Extension{ext("b"), ext("a"), ext("c")},
			want: []string{"b", "a", "c"},
		},
		{
			name: "requirements first",
			exts: []Extension{ext("floats", "core", "command"), ext("command", "core"), ext("core")},
			want: []string{"core", "command", "floats"},
		},
		{
			name: "shared requirement visited once",
			exts: []Extension{ext("x", "core"), ext("y", "core"), ext("core")},
			want: []string{"core", "x", "y"},
		},
		{
			name:    "cycle",
			exts:    []Extension{ext("a", "b"), ext("b", "c"), ext("c", "a")},
			wantErr: ErrCyclicRequires,
		},
		{
			name:    "self cycle",
			exts:    []Extension{ext("a", "a")},
			wantErr: ErrCyclicRequires,
		},
		{
			name:    "missing requirement",
			exts:    []Extension{ext("listing", "floats")},
			wantErr: ErrMissingRequirement,
		},
		{
			name:    "duplicate",
			exts:    []Extension{ext("a"), ext("a")},
			wantErr: ErrDuplicateExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Sort(tt.exts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Sort() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sort() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_CycleNamesPath(t *testing.T) {
	t.Parallel()

	_, err := Sort([]Extension{ext("a", "b"), ext("b", "a")})
	if err == nil || !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("Sort() error = %v, want the cycle path", err)
	}
}

func newComposeTargets(t *testing.T) (*Context, *reader.Reader, render.Renderer) {
	t.Helper()
	tree, err := pages.NewTree(nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(logging.Nop(), tree, render.HTML)
	rd, err := render.New(render.HTML, render.Options{Log: logging.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	return ctx, reader.New(logging.Nop(), ctx.Diagnostics), rd
}

func TestCompose_ExtendsOnceInOrder(t *testing.T) {
	t.Parallel()

	ctx, r, rd := newComposeTargets(t)
	var calls []string
	resets := 0
	a := ext("a", "core")
	a.log = &calls
	core := resettable{ext("core")}
	core.log = &calls
	core.resets = &resets

	sorted, err := Compose(ctx, r, rd, []Extension{a, core})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if diff := cmp.Diff([]string{"core", "a"}, calls); diff != "" {
		t.Errorf("Extend order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"core", "a"}, names(sorted)); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
	rd.Reinit()
	if resets != 1 {
		t.Errorf("Reinitializer ran %d times, want 1", resets)
	}
}

func TestCompose_DuplicateCommand(t *testing.T) {
	t.Parallel()

	ctx, r, rd := newComposeTargets(t)
	a := ext("a")
	a.command = "note"
	b := ext("b")
	b.command = "note"

	_, err := Compose(ctx, r, rd, []Extension{a, b})
	if !errors.Is(err, command.ErrDuplicateCommand) {
		t.Errorf("Compose() error = %v, want ErrDuplicateCommand", err)
	}
	if err == nil || !strings.Contains(err.Error(), "extension b") {
		t.Errorf("Compose() error = %v, want the failing extension named", err)
	}
}

func TestRegistry_Build(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(Factory{
		Name:    "floats",
		Options: settings.Schema{{Name: "prefix", Default: "Figure", Type: settings.String}},
		New: func(opts settings.Values) (Extension, error) {
			return ext(opts.String("prefix")), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	e, err := reg.Build("floats", nil)
	if err != nil || e.Name() != "Figure" {
		t.Errorf("Build(defaults) = %v, %v", e, err)
	}
	e, err = reg.Build("floats", map[string]any{"prefix": "Fig."})
	if err != nil || e.Name() != "Fig." {
		t.Errorf("Build(prefix) = %v, %v", e, err)
	}
	if _, err := reg.Build("floats", map[string]any{"colour": "red"}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("Build(unknown option) error = %v, want ErrInvalidOption", err)
	}
	if _, err := reg.Build("tikz", nil); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("Build(tikz) error = %v, want ErrUnknownExtension", err)
	}
	if err := reg.Register(Factory{Name: "floats"}); !errors.Is(err, ErrDuplicateExtension) {
		t.Errorf("Register(duplicate) error = %v, want ErrDuplicateExtension", err)
	}
	if diff := cmp.Diff([]string{"floats"}, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestCounters(t *testing.T) {
	t.Parallel()

	c := NewCounters()
	c.Next("a.md", "Figure")
	c.Next("a.md", "Figure")
	c.Next("a.md", "Table")
	c.Next("b.md", "Figure")

	if got := c.Current("a.md", "Figure"); got != 2 {
		t.Errorf("Current() = %d, want 2", got)
	}
	c.ResetPage("a.md")
	if c.Current("a.md", "Figure") != 0 || c.Current("a.md", "Table") != 0 {
		t.Error("ResetPage() left counters of the page")
	}
	if got := c.Next("b.md", "Figure"); got != 2 {
		t.Errorf("other page counter = %d, want 2", got)
	}
}

func TestHeadingIndex(t *testing.T) {
	t.Parallel()

	h := NewHeadingIndex()
	h.Set("b.md", []Heading{{Page: "b.md", ID: "x", Text: "X", Level: 1}})
	h.Set("a.md", []Heading{{Page: "a.md", ID: "one", Text: "One", Level: 1}, {Page: "a.md", ID: "two", Text: "Two", Level: 2}})

	var ids []string
	for _, hd := range h.All() {
		ids = append(ids, hd.Page+"#"+hd.ID)
	}
	if diff := cmp.Diff([]string{"a.md#one", "a.md#two", "b.md#x"}, ids); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if hd, ok := h.Lookup("a.md", "two"); !ok || hd.Level != 2 {
		t.Errorf("Lookup() = %+v, %v", hd, ok)
	}
	h.Reset()
	if len(h.All()) != 0 {
		t.Error("Reset() left headings")
	}
}
