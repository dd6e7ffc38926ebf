package contents

import (
	"testing"

	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/exttest"
	"github.com/alnah/go-simdoc/internal/render"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

func build(t *testing.T, renderer string, files map[string]string) *exttest.Site {
	t.Helper()
	return exttest.Build(t, renderer, files, core.New(), cmdext.New(), New())
}

func TestContents_HTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "levels bound the depth",
			page: "# Guide\n\n!contents levels=2\n\n## Install\n\n### Linux\n\n## Use\n",
			want: `<nav class="simdoc-contents"><ul><li><a href="#guide">Guide</a>` +
				`<ul><li><a href="#install">Install</a></li><li><a href="#use">Use</a></li></ul></li></ul></nav>`,
		},
		{
			name: "default depth",
			page: "!contents\n\n## A\n\n### B\n\n#### C\n",
			want: `<ul><li><a href="#a">A</a><ul><li><a href="#b">B</a></li></ul></li></ul>`,
		},
		{
			name: "skipped level nests under the last shallower heading",
			page: "!contents\n\n# Top\n\n### Deep\n\n## Mid\n",
			want: `<li><a href="#top">Top</a><ul><li><a href="#deep">Deep</a></li><li><a href="#mid">Mid</a></li></ul></li>`,
		},
		{
			name: "no headings",
			page: "!contents\n\nText.\n",
			want: `<nav class="simdoc-contents"></nav>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			site := build(t, render.HTML, map[string]string{"index.md": tt.page})
			site.Contains(t, "index.html", tt.want)
		})
	}
}

func TestSitemap_HTML(t *testing.T) {
	t.Parallel()

	site := build(t, render.HTML, map[string]string{
		"about.md":       "# About\n",
		"guide/setup.md": "# Setup\n\n!sitemap\n",
		"index.md":       "# Home\n\n!sitemap\n",
	})

	site.Contains(t, "index.html",
		`<nav class="simdoc-sitemap"><ul><li><a href="about.html">About</a></li>`,
		`<li class="simdoc-sitemap-dir">guide<ul><li><a href="guide/setup.html">Setup</a></li></ul></li>`,
	)
	site.Contains(t, "guide/setup.html",
		`<a href="../about.html">About</a>`,
		`<a href="../index.html">Home</a>`,
	)
}

func TestContents_Latex(t *testing.T) {
	t.Parallel()

	site := build(t, render.Latex, map[string]string{
		"index.md": "# Home\n\n!contents\n\n!sitemap\n",
		"other.md": "# Other\n",
	})

	site.Contains(t, "index.tex", `\tableofcontents`, `\begin{itemize}`, "Home", "Other")
}
