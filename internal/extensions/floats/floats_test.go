package floats

import (
	"testing"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/exttest"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// figExt adds !fig id=... caption=..., an empty float with the "figure"
// prefix.
type figExt struct {
	ext.Base
}

func (figExt) Extend(ctx *ext.Context, _ *reader.Reader, _ render.Renderer) error {
	return ctx.Commands.Add(figCommand{})
}

type figCommand struct{}

func (figCommand) Name() string          { return "fig" }
func (figCommand) Subcommands() []string { return []string{""} }
func (figCommand) Settings() settings.Schema {
	return settings.Schema{{Name: "caption", Default: "", Type: settings.String}}
}

func (figCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	return New(parent, inv.Scanner(), inv.Line(), inv.Settings.String("id"), "figure", inv.Settings.String("caption"))
}

func buildSite(t *testing.T, renderer string, files map[string]string) *exttest.Site {
	t.Helper()
	fig := figExt{Base: ext.Base{ExtName: "fig", ExtRequires: []string{Name}}}
	return exttest.Build(t, renderer, files, core.New(), cmdext.New(), NewExtension(), fig)
}

func TestNumber(t *testing.T) {
	t.Parallel()

	root := tokens.NewRoot(nil)
	float := func(id, prefix string, captioned bool) {
		f := Float.MustNew(root, tokens.Props{"id": id, "prefix": prefix})
		if captioned {
			Caption.MustNew(f, tokens.Props{"prefix": prefix})
		}
	}
	float("a", "figure", true)
	float("", "figure", true)
	float("t1", "table", true)
	float("bare", "figure", false)
	float("b", "figure", true)

	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{id: "a", want: "Figure 1"},
		{id: "b", want: "Figure 2"},
		{id: "t1", want: "Table 1"},
		{id: "bare", wantErr: true},
		{id: "missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			got, err := Number(root, tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Number(%q) = %q, want error", tt.id, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Number(%q) unexpected error: %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Number(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestFloats_NumberingAndRefs(t *testing.T) {
	t.Parallel()

	text := "!fig id=a caption=First\n\n" +
		"!fig caption=Unnumbered\n\n" +
		"!fig id=b caption=Second\n\n" +
		"See [!ref](b) and [!ref](a).\n"
	site := buildSite(t, render.HTML, map[string]string{"index.md": text})

	site.Contains(t, "index.html",
		`<div id="a" class="simdoc-float"><p class="simdoc-caption"><span class="simdoc-caption-heading">Figure 1: </span><span class="simdoc-caption-text">First</span></p></div>`,
		`<p class="simdoc-caption"><span class="simdoc-caption-text">Unnumbered</span></p>`,
		`<span class="simdoc-caption-heading">Figure 2: </span><span class="simdoc-caption-text">Second</span>`,
		`See <a href="#b" class="simdoc-ref">Figure 2</a> and <a href="#a" class="simdoc-ref">Figure 1</a>.`,
	)
	if site.Report.Errors != 0 {
		t.Errorf("Errors = %d, want 0", site.Report.Errors)
	}
}

func TestFloats_NumbersRestartPerPage(t *testing.T) {
	t.Parallel()

	page := "!fig id=x caption=Only\n"
	site := buildSite(t, render.HTML, map[string]string{"a.md": page, "b.md": page})

	for _, out := range []string{"a.html", "b.html"} {
		site.Contains(t, out, `Figure 1: `)
		site.Lacks(t, out, `Figure 2: `)
	}
}

func TestFloats_CrossPageRef(t *testing.T) {
	t.Parallel()

	site := buildSite(t, render.HTML, map[string]string{
		"a.md":       "!fig id=one caption=Uno\n\n!fig id=two caption=Dos\n",
		"guide/b.md": "As in [!ref](a.md#two).\n",
	})

	site.Contains(t, "guide/b.html", `<a href="../a.html#two" class="simdoc-ref">Figure 2</a>`)
}

func TestFloats_UnknownRefIsContained(t *testing.T) {
	t.Parallel()

	site := buildSite(t, render.HTML, map[string]string{"index.md": "See [!ref](nowhere).\n"})

	site.Contains(t, "index.html", `class="simdoc-exception"`)
	if failed := site.Report.Failed(); len(failed) != 0 {
		t.Errorf("Failed() = %v, want none", failed)
	}
	if site.Report.Errors == 0 {
		t.Error("Errors = 0, want the render failure recorded")
	}
}

func TestFloats_Latex(t *testing.T) {
	t.Parallel()

	site := buildSite(t, render.Latex, map[string]string{"index.md": "!fig id=a caption=First\n\nSee [!ref](a).\n"})

	site.Contains(t, "index.tex", `\textbf{Figure 1: }`, `\label{a}`, `\hyperref[a]{Figure 1}`)
}
