package assets

// Loader reads the page template and stylesheet of a renderer. Both are
// keyed by renderer name: html, materialize or latex. It satisfies
// render.TemplateLoader.
type Loader interface {
	// LoadStyle returns styles/<renderer>.css, or ErrStyleNotFound for a
	// renderer without a stylesheet (latex).
	LoadStyle(renderer string) (string, error)

	// LoadTemplate returns templates/<renderer>.tmpl, or ErrTemplateNotFound.
	LoadTemplate(renderer string) (string, error)
}
