package core

import (
	"io"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-simdoc/internal/render"
)

// Highlight writes code as chroma HTML using CSS classes; the matching
// stylesheet is emitted by the materialize renderer.
func Highlight(w io.Writer, code, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}
	f := chromahtml.New(chromahtml.WithClasses(true))
	return f.Format(w, styles.Get(render.HighlightStyle), it)
}

// DetectLanguage picks a highlighting language from a file name, falling
// back to the bare extension.
func DetectLanguage(filename string) string {
	if l := lexers.Match(filename); l != nil {
		if cfg := l.Config(); len(cfg.Aliases) > 0 {
			return cfg.Aliases[0]
		}
	}
	if ext := strings.TrimPrefix(path.Ext(filename), "."); ext != "" {
		return ext
	}
	return "text"
}
