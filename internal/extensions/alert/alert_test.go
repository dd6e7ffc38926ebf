package alert

import (
	"testing"

	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/exttest"
	"github.com/alnah/go-simdoc/internal/render"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

func build(t *testing.T, renderer, page string) *exttest.Site {
	t.Helper()
	return exttest.Build(t, renderer, map[string]string{"index.md": page}, core.New(), cmdext.New(), New())
}

func TestAlert_HTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "brand with title",
			page: "!alert! warning title=Deprecated syntax\nUse the *new* form.\n!alert-end!\n",
			want: `<div class="simdoc-alert simdoc-alert-warning">` +
				`<div class="simdoc-alert-title">WARNING: Deprecated syntax</div>` +
				`<div class="simdoc-alert-content"><p>Use the <strong>new</strong> form.</p></div></div>`,
		},
		{
			name: "brand only",
			page: "!alert! note\nPlain.\n!alert-end!\n",
			want: `<div class="simdoc-alert-title">NOTE</div>`,
		},
		{
			name: "title without prefix",
			page: "!alert! tip prefix=false title=Shortcut\nPlain.\n!alert-end!\n",
			want: `<div class="simdoc-alert-title">Shortcut</div>`,
		},
		{
			name: "no title at all",
			page: "!alert! error prefix=false\nPlain.\n!alert-end!\n",
			want: `<div class="simdoc-alert simdoc-alert-error"><div class="simdoc-alert-content">`,
		},
		{
			name: "nested blocks",
			page: "!alert! construction\n- one\n- two\n!alert-end!\n",
			want: `<div class="simdoc-alert-content"><ul><li><p>one</p></li><li><p>two</p></li></ul></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			site := build(t, render.HTML, tt.page)
			site.Contains(t, "index.html", tt.want)
			if site.Report.Errors != 0 {
				t.Errorf("Errors = %d, want 0", site.Report.Errors)
			}
		})
	}
}

func TestAlert_UnknownBrand(t *testing.T) {
	t.Parallel()

	site := build(t, render.HTML, "!alert! danger\nText.\n!alert-end!\n")

	site.Contains(t, "index.html", `class="simdoc-error"`)
	site.Lacks(t, "index.html", "simdoc-alert")
	if site.Report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", site.Report.Errors)
	}
}

func TestAlert_Materialize(t *testing.T) {
	t.Parallel()

	site := build(t, render.Materialize, "!alert! tip\nText.\n!alert-end!\n")

	site.Contains(t, "index.html",
		`class="simdoc-alert simdoc-alert-tip card"`,
		`class="simdoc-alert-title card-title"`,
		`class="simdoc-alert-content card-content"`,
	)
}

func TestAlert_Latex(t *testing.T) {
	t.Parallel()

	site := build(t, render.Latex, "!alert! warning title=Careful\nText.\n!alert-end!\n")

	site.Contains(t, "index.tex",
		`\begin{tcolorbox}[colframe=orange!60!black,colback=orange!5]`,
		`\textbf{WARNING: Careful}`,
		`\end{tcolorbox}`,
	)
}
