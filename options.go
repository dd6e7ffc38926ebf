package simdoc

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/pdf"
)

// builderConfig holds the resolved options of a Builder.
type builderConfig struct {
	log         zerolog.Logger
	renderer    string
	workers     int
	collapsible Collapsible
	assetPath   string
	extensions  []Extension
	registry    *ext.Registry
	pdf         bool
	keepHTML    bool
	pdfTimeout  time.Duration
	printer     pdf.Renderer
}

// Option configures a Builder.
type Option func(*builderConfig)

// WithLogger sets the logger; builds are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *builderConfig) {
		c.log = log
	}
}

// WithRenderer selects the output format.
func WithRenderer(name string) Option {
	return func(c *builderConfig) {
		c.renderer = name
	}
}

// WithWorkers bounds page parallelism. Zero or less sizes the pool from
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *builderConfig) {
		c.workers = n
	}
}

// WithCollapsible configures which heading levels render as collapsible
// sections.
func WithCollapsible(states Collapsible) Option {
	return func(c *builderConfig) {
		c.collapsible = states
	}
}

// WithAssetPath overrides templates and styles from a directory, falling
// back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *builderConfig) {
		c.assetPath = dir
	}
}

// WithExtensions replaces the default extension list.
func WithExtensions(exts ...Extension) Option {
	return func(c *builderConfig) {
		c.extensions = exts
	}
}

// WithRegistry resolves extension names against r instead of
// DefaultRegistry, for programs adding their own extensions.
func WithRegistry(r *ext.Registry) Option {
	return func(c *builderConfig) {
		c.registry = r
	}
}

// WithPDF prints every HTML page to PDF through headless Chrome. keepHTML
// also writes the HTML pages; timeout bounds one page load (zero uses the
// default).
func WithPDF(keepHTML bool, timeout time.Duration) Option {
	return func(c *builderConfig) {
		c.pdf = true
		c.keepHTML = keepHTML
		c.pdfTimeout = timeout
	}
}

// withPrinter substitutes the PDF renderer.
func withPrinter(r pdf.Renderer) Option {
	return func(c *builderConfig) {
		c.printer = r
	}
}
