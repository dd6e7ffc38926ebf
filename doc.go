// Package simdoc compiles documentation written in an extensible markup
// language to plain HTML, themed HTML, LaTeX or PDF.
//
// # Quick Start
//
// Create a builder over one or more content directories, build, and close
// when done:
//
//	b, err := simdoc.NewBuilder([]simdoc.Source{{Dir: "doc/content"}},
//	    simdoc.WithRenderer(simdoc.RendererMaterialize),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	report, err := b.Build(ctx, "site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !report.OK() {
//	    for _, d := range b.Diagnostics() {
//	        fmt.Println(d.Box())
//	    }
//	}
//
// # Build Pipeline
//
// Every page goes through the same stages:
//
//  1. Tokenize: the reader scans the page with the grammar composed from
//     the enabled extensions and builds a token tree. A construct that
//     fails becomes an error token; the rest of the page is still read.
//  2. Render: the renderer dispatches every token to the function bound
//     for its kind and regroups the output into heading sections.
//  3. Write: the output is stored beneath the destination, or printed to
//     PDF when WithPDF is set.
//
// Pages are processed by a bounded worker pool. Once every page is done,
// the sitewide search index is written and post-execute hooks run.
//
// # Extensions
//
// The markup is defined entirely by extensions. DefaultExtensions enables
// every built-in one; WithExtensions selects and configures a subset:
//
//	simdoc.WithExtensions(
//	    simdoc.Extension{Name: "core"},
//	    simdoc.Extension{Name: "command"},
//	    simdoc.Extension{Name: "floats"},
//	    simdoc.Extension{Name: "listing", Options: map[string]any{"root": "examples"}},
//	)
//
// Requirements between extensions are resolved automatically; a cycle, a
// missing requirement or two extensions claiming the same command fail
// NewBuilder before any page is read.
package simdoc
