// Package assets provides the page templates and stylesheets of the
// renderers. Assets can be loaded from embedded files or a custom directory.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed filesystem
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// # Directory Structure
//
// Assets are keyed by renderer name:
//
//	{basePath}/
//	├── styles/
//	│   └── {renderer}.css      # html.css, materialize.css
//	└── templates/
//	    └── {renderer}.tmpl     # html.tmpl, materialize.tmpl, latex.tmpl
//
// HTML templates are html/template text receiving render.PageData; the
// LaTeX template is text/template text receiving render.LatexData.
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
