package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/fileutil"
	"github.com/alnah/go-simdoc/internal/translator"
)

var _ translator.Sink = (*Sink)(nil)

// Sink prints every .html output to a .pdf beside it and passes all other
// outputs to an inner directory sink. Relative links of a printed page are
// resolved against its destination directory, so copied images and styles
// appear in the PDF.
type Sink struct {
	translator.DirSink
	// KeepHTML also writes the HTML pages.
	KeepHTML bool

	ctx      context.Context
	renderer Renderer
}

// NewSink returns a sink writing beneath root with r.
func NewSink(ctx context.Context, root string, r Renderer, keepHTML bool) *Sink {
	return &Sink{
		DirSink:  translator.DirSink{Root: root},
		KeepHTML: keepHTML,
		ctx:      ctx,
		renderer: r,
	}
}

// Write implements translator.Sink.
func (s *Sink) Write(local string, data []byte) error {
	if path.Ext(local) != ".html" {
		return s.DirSink.Write(local, data)
	}
	if s.KeepHTML {
		if err := s.DirSink.Write(local, data); err != nil {
			return err
		}
	}
	pageDir := filepath.Join(s.Root, filepath.FromSlash(path.Dir(local)))
	printable, err := absolutize(data, pageDir, s.Root)
	if err != nil {
		return fmt.Errorf("preparing %s: %w", local, err)
	}
	tmp, cleanup, err := fileutil.WriteTempFile(string(printable), "html")
	if err != nil {
		return err
	}
	defer cleanup()

	pdf, err := s.renderer.RenderFromFile(s.ctx, tmp)
	if err != nil {
		return fmt.Errorf("printing %s: %w", local, err)
	}
	return s.DirSink.Write(strings.TrimSuffix(local, ".html")+".pdf", pdf)
}

func absolutize(data []byte, dir, root string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := dom.AbsolutizeLinks(doc, dir, root); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
