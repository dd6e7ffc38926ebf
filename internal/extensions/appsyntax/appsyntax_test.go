package appsyntax

import (
	"testing"

	"github.com/alnah/go-simdoc/internal/appsyntax"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/exttest"
	"github.com/alnah/go-simdoc/internal/render"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

const dump = `{
  "name": "",
  "children": [
    {
      "name": "Kernels",
      "description": "Volume terms.",
      "children": [
        {
          "name": "Diffusion",
          "description": "The _Laplacian_ operator.",
          "parameters": [
            {"name": "variable", "type": "VariableName", "description": "Variable to operate on.", "required": true},
            {"name": "use_displaced_mesh", "type": "bool", "default": "false", "description": "Use the displaced mesh.", "group": "Advanced"}
          ]
        },
        {"name": "Reaction", "description": "A reaction term."}
      ]
    }
  ]
}`

func build(t *testing.T, renderer, page string, withTree bool) *exttest.Site {
	t.Helper()
	var tree *appsyntax.Tree
	if withTree {
		var err error
		if tree, err = appsyntax.Parse([]byte(dump)); err != nil {
			t.Fatal(err)
		}
	}
	return exttest.Build(t, renderer, map[string]string{"index.md": page}, core.New(), cmdext.New(), New(tree))
}

func TestSyntax_HTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		page   string
		want   []string
		unwant []string
	}{
		{
			name: "description is tokenized",
			page: "!syntax description /Kernels/Diffusion\n",
			want: []string{`<p>The <em>Laplacian</em> operator.</p>`},
		},
		{
			name: "parameters by group",
			page: "!syntax parameters /Kernels/Diffusion\n",
			want: []string{
				`<div class="simdoc-syntax-parameters"><p class="simdoc-syntax-group">Input Parameters</p>`,
				`<dt id="param-kernels-diffusion-variable"><code>variable</code></dt>`,
				`<p class="simdoc-syntax-meta">Type: VariableName, required</p>`,
				`<p class="simdoc-syntax-group">Advanced Parameters</p>`,
				`Type: bool, default: false`,
			},
		},
		{
			name:   "selected group",
			page:   "!syntax parameters /Kernels/Diffusion groups=advanced\n",
			want:   []string{`Advanced Parameters`},
			unwant: []string{`Input Parameters`},
		},
		{
			name: "children",
			page: "!syntax children /Kernels\n",
			want: []string{`<ul class="simdoc-syntax-children"><li><code>Diffusion</code>: The _Laplacian_ operator.</li><li><code>Reaction</code>: A reaction term.</li></ul>`},
		},
		{
			name: "inline parameter",
			page: "Set [!param](/Kernels/Diffusion/variable) first.\n",
			want: []string{`<code class="simdoc-param" title="Variable to operate on. (VariableName)" data-object="/Kernels/Diffusion">variable</code>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			site := build(t, render.HTML, tt.page, true)
			site.Contains(t, "index.html", tt.want...)
			site.Lacks(t, "index.html", tt.unwant...)
			if site.Report.Errors != 0 {
				t.Errorf("Errors = %d, want 0", site.Report.Errors)
			}
		})
	}
}

func TestSyntax_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     string
		withTree bool
	}{
		{"unknown object", "!syntax parameters /Kernels/Nothing\n", true},
		{"missing path", "!syntax children\n", true},
		{"no description", "!syntax description /\n", true},
		{"unknown parameter", "Set [!param](/Kernels/Diffusion/nope).\n", true},
		{"no tree loaded", "!syntax children /Kernels\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			site := build(t, render.HTML, tt.page, tt.withTree)
			site.Contains(t, "index.html", `class="simdoc-error"`)
			if site.Report.Errors == 0 {
				t.Error("Errors = 0, want the failure recorded")
			}
		})
	}
}

func TestSyntax_Latex(t *testing.T) {
	t.Parallel()

	site := build(t, render.Latex, "!syntax parameters /Kernels/Diffusion\n\n!syntax children /Kernels\n", true)

	site.Contains(t, "index.tex",
		`\paragraph{Input Parameters}`,
		`\item[variable] Variable to operate on. (VariableName)`,
		`\texttt{Diffusion}`,
	)
}

func TestFactory_WithoutArtifact(t *testing.T) {
	t.Parallel()

	f := Factory()
	vals, err := f.Options.Validate(nil)
	if err != nil {
		t.Fatal(err)
	}
	e, err := f.New(vals)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if e.(*Extension).tree != nil {
		t.Error("tree loaded without an artifact")
	}
}

func TestFactory_MissingArtifact(t *testing.T) {
	t.Parallel()

	f := Factory()
	vals, err := f.Options.Validate(map[string]any{
		"artifact": "/nonexistent/app-opt",
		"dump":     "/nonexistent/syntax.json",
		"cache":    t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.New(vals); err == nil {
		t.Fatal("New() with a missing artifact: expected error")
	}
}
