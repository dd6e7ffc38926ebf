package simdoc_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-simdoc"
)

// Example builds a one-page site to HTML.
func Example() {
	content, _ := os.MkdirTemp("", "simdoc-content")
	defer os.RemoveAll(content)
	dest, _ := os.MkdirTemp("", "simdoc-site")
	defer os.RemoveAll(dest)

	page := "# Hello World\n\nThis is a *test*.\n"
	if err := os.WriteFile(filepath.Join(content, "index.md"), []byte(page), 0o600); err != nil {
		fmt.Println("error:", err)
		return
	}

	b, err := simdoc.NewBuilder([]simdoc.Source{{Dir: content}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer b.Close()

	report, err := b.Build(context.Background(), dest)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("pages:", report.Pages, "ok:", report.OK())
	// Output: pages: 1 ok: true
}

// Example_withExtensions enables a subset of the markup.
func Example_withExtensions() {
	content, _ := os.MkdirTemp("", "simdoc-content")
	defer os.RemoveAll(content)
	_ = os.WriteFile(filepath.Join(content, "index.md"), []byte("# Home\n"), 0o600)

	b, err := simdoc.NewBuilder([]simdoc.Source{{Dir: content}},
		simdoc.WithExtensions(
			simdoc.Extension{Name: "floats"},
			simdoc.Extension{Name: "command"},
			simdoc.Extension{Name: "core"},
		),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer b.Close()

	fmt.Println(strings.Join(b.Extensions(), ", "))
	// Output: core, command, floats
}

// ExampleBuilder_Convert renders a snippet outside of any page.
func ExampleBuilder_Convert() {
	content, _ := os.MkdirTemp("", "simdoc-content")
	defer os.RemoveAll(content)

	b, err := simdoc.NewBuilder([]simdoc.Source{{Dir: content}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer b.Close()

	out, err := b.Convert("Some *bold* text.\n")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if strings.Contains(out, "<strong>bold</strong>") {
		fmt.Println("converted")
	}
	// Output: converted
}
