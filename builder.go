package simdoc

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/assets"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/fileutil"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/pdf"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/translator"
)

// Builder compiles a fixed set of sources. Create with NewBuilder, run
// Build or Check as often as needed, and Close when done.
type Builder struct {
	cfg  builderConfig
	tree *pages.Tree
	tr   *translator.Translator
}

// NewBuilder discovers sources and composes the configured extensions.
// Configuration problems (unknown extensions, invalid options, requirement
// cycles, duplicate commands) are reported here, before any page is read.
func NewBuilder(sources []Source, opts ...Option) (*Builder, error) {
	cfg := builderConfig{
		log:      zerolog.Nop(),
		renderer: render.HTML,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pdf && cfg.renderer == render.Latex {
		return nil, ErrPDFRenderer
	}

	found, err := discover(sources)
	if err != nil {
		return nil, err
	}
	tree, err := pages.NewTree(found)
	if err != nil {
		return nil, err
	}

	loader, err := assets.NewResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	exts, err := cfg.buildExtensions()
	if err != nil {
		return nil, err
	}

	tr, err := translator.New(tree, exts, translator.Options{
		Log:         cfg.log,
		Renderer:    cfg.renderer,
		Workers:     cfg.workers,
		Collapsible: cfg.collapsible,
		Assets:      loader,
	})
	if err != nil {
		return nil, err
	}

	if cfg.pdf && cfg.printer == nil {
		cfg.printer = pdf.NewRodRenderer(cfg.pdfTimeout)
	}
	return &Builder{cfg: cfg, tree: tree, tr: tr}, nil
}

func (c *builderConfig) buildExtensions() ([]ext.Extension, error) {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	list := c.extensions
	if list == nil {
		list = DefaultExtensions()
	}
	out := make([]ext.Extension, 0, len(list))
	for _, e := range list {
		x, err := registry.Build(e.Name, e.Options)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// discover reads every source directory into one list of page tree
// sources.
func discover(sources []Source) ([]pages.Source, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	var out []pages.Source
	for _, s := range sources {
		if !fileutil.DirExists(s.Dir) {
			return nil, fmt.Errorf("%w: %s: not a directory", ErrInvalidSource, s.Dir)
		}
		found, err := pages.Discover(s.Dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, s.Dir, err)
		}
		for _, f := range found {
			if s.Prefix != "" {
				f.Local = path.Join(s.Prefix, f.Local)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// Build renders every page beneath dest. Per-page problems are recorded in
// the report and the diagnostics, and never stop the rest of the build.
func (b *Builder) Build(ctx context.Context, dest string) (Report, error) {
	var sink Sink = translator.DirSink{Root: dest}
	if b.cfg.pdf {
		sink = pdf.NewSink(ctx, dest, b.cfg.printer, b.cfg.keepHTML)
	}
	return b.tr.Build(ctx, sink)
}

// BuildTo renders every page into sink.
func (b *Builder) BuildTo(ctx context.Context, sink Sink) (Report, error) {
	return b.tr.Build(ctx, sink)
}

// Check tokenizes every page without rendering.
func (b *Builder) Check(ctx context.Context) (Report, error) {
	return b.tr.Check(ctx)
}

// Convert renders a snippet of markup outside of any page. Cross-page
// links cannot resolve from a snippet.
func (b *Builder) Convert(text string) (string, error) {
	return b.tr.Render(b.tr.Tokenize(text))
}

// Diagnostics returns the problems recorded by the last Build or Check.
func (b *Builder) Diagnostics() []Diagnostic {
	return b.tr.Diagnostics().Items()
}

// Pages returns the local paths of every page.
func (b *Builder) Pages() []string {
	ps := b.tree.Pages()
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Local())
	}
	return out
}

// Extensions returns the names of the composed extensions in
// initialization order.
func (b *Builder) Extensions() []string {
	exts := b.tr.Extensions()
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.Name())
	}
	return out
}

// Close releases the browser used for PDF output.
func (b *Builder) Close() error {
	if b.cfg.printer == nil {
		return nil
	}
	return b.cfg.printer.Close()
}
