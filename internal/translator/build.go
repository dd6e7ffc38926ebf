package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/tokens"
)

// SearchIndex is the name of the aggregate search artifact.
const SearchIndex = "search.json"

// PageResult is the outcome of one page.
type PageResult struct {
	Page     string
	Output   string
	Err      error
	Duration time.Duration
}

// Report summarizes a build.
type Report struct {
	Pages    int
	Files    int
	Errors   int
	Warnings int
	Results  []PageResult
	Duration time.Duration
}

// Failed returns the pages that produced no output.
func (r Report) Failed() []PageResult {
	var out []PageResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether the build recorded no error.
func (r Report) OK() bool { return r.Errors == 0 && len(r.Failed()) == 0 }

// Build starts a new generation and renders every page to sink. Per-page
// failures are recorded in the report and never stop sibling pages;
// cancelling ctx stops scheduling. Aggregate artifacts and PostExecute
// hooks run after every page is done.
func (t *Translator) Build(ctx context.Context, sink Sink) (Report, error) {
	start := time.Now()
	t.Reinit()
	t.initPages()

	ps := t.tree.Pages()
	results := t.each(ctx, ps, func(p *pages.Page) PageResult {
		out, err := t.RenderPage(p)
		if err != nil {
			if !errors.Is(err, render.ErrRenderFailed) {
				t.record(p, diag.StageRender, err)
			}
			return PageResult{Err: err}
		}
		dest := p.Destination(t.renderer.Extension())
		if err := sink.Write(dest, []byte(out)); err != nil {
			t.record(p, diag.StageWrite, err)
			return PageResult{Err: err}
		}
		return PageResult{Output: dest}
	})

	files := 0
	for _, f := range t.tree.Files() {
		if err := sink.Copy(f.Local(), f.Source()); err != nil {
			t.ctx.Diagnostics.Add(diag.Diagnostic{Level: diag.Error, Stage: diag.StageWrite, Page: f.Local(), Cause: err.Error()})
			continue
		}
		files++
	}

	// Barrier passed: every page is tokenized and rendered.
	if err := t.writeSearchIndex(sink); err != nil {
		return Report{}, err
	}
	for _, e := range t.exts {
		if h, ok := e.(ext.PostExecutor); ok {
			if err := h.PostExecute(ctx); err != nil {
				return Report{}, fmt.Errorf("%w: %s post-execute: %v", ErrHook, e.Name(), err)
			}
		}
	}

	errs, warns := t.ctx.Diagnostics.Counts()
	rep := Report{
		Pages:    len(ps),
		Files:    files,
		Errors:   errs,
		Warnings: warns,
		Results:  results,
		Duration: time.Since(start),
	}
	t.log.Info().
		Int("pages", rep.Pages).
		Int("files", rep.Files).
		Int("errors", rep.Errors).
		Int("warnings", rep.Warnings).
		Dur("elapsed", rep.Duration).
		Msg("build finished")
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

// Check tokenizes every page without rendering and reports tokenize
// errors.
func (t *Translator) Check(ctx context.Context) (Report, error) {
	start := time.Now()
	t.Reinit()
	t.initPages()
	ps := t.tree.Pages()
	results := t.each(ctx, ps, func(p *pages.Page) PageResult {
		ast, err := t.AST(p)
		if err != nil {
			return PageResult{Err: err}
		}
		if n := len(ast.Find(tokens.ErrorToken)); n > 0 {
			return PageResult{Err: fmt.Errorf("%d tokenize errors", n)}
		}
		return PageResult{}
	})
	errs, warns := t.ctx.Diagnostics.Counts()
	rep := Report{Pages: len(ps), Errors: errs, Warnings: warns, Results: results, Duration: time.Since(start)}
	return rep, ctx.Err()
}

func (t *Translator) initPages() {
	for _, e := range t.exts {
		if h, ok := e.(ext.PageInitializer); ok {
			for _, p := range t.tree.Pages() {
				h.InitPage(p)
			}
		}
	}
}

// each runs fn over ps on the worker pool. Results keep the order of ps.
func (t *Translator) each(ctx context.Context, ps []*pages.Page, fn func(*pages.Page) PageResult) []PageResult {
	if len(ps) == 0 {
		return nil
	}
	concurrency := t.workers
	if concurrency > len(ps) {
		concurrency = len(ps)
	}

	results := make([]PageResult, len(ps))
	var wg sync.WaitGroup
	jobs := make(chan int, len(ps))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p := ps[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = PageResult{Page: p.Local(), Err: err}
					continue
				}
				started := time.Now()
				res := t.safe(p, fn)
				res.Page = p.Local()
				res.Duration = time.Since(started)
				results[idx] = res
			}
		}()
	}

	for i := range ps {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// safe contains a panic escaping fn to its page.
func (t *Translator) safe(p *pages.Page, fn func(*pages.Page) PageResult) (res PageResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			t.record(p, diag.StageRender, err)
			res = PageResult{Err: err}
		}
	}()
	return fn(p)
}

func (t *Translator) record(p *pages.Page, stage diag.Stage, err error) {
	d := diag.Diagnostic{Level: diag.Error, Stage: stage, Page: p.Local(), Cause: err.Error()}
	t.log.Error().Str("page", p.Local()).Str("stage", string(stage)).Err(err).Msg("page failed")
	t.ctx.Diagnostics.Add(d)
}

// searchEntry is one record of the search index.
type searchEntry struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Page     string `json:"page"`
	Level    int    `json:"level"`
}

func (t *Translator) writeSearchIndex(sink Sink) error {
	suffix := t.renderer.Extension()
	entries := []searchEntry{}
	for _, h := range t.ctx.Headings.All() {
		n, ok := t.tree.Get(h.Page)
		if !ok {
			continue
		}
		p, ok := n.(*pages.Page)
		if !ok {
			continue
		}
		loc := p.Destination(suffix)
		if h.ID != "" {
			loc += "#" + h.ID
		}
		entries = append(entries, searchEntry{Title: h.Text, Location: loc, Page: h.Page, Level: h.Level})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding search index: %w", err)
	}
	if err := sink.Write(SearchIndex, data); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}
