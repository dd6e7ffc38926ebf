package ext

import (
	"fmt"
	"strings"

	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
)

// Sort orders exts so every extension follows its requirements.
func Sort(exts []Extension) ([]Extension, error) {
	byName := make(map[string]Extension, len(exts))
	for _, e := range exts {
		if _, dup := byName[e.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateExtension, e.Name())
		}
		byName[e.Name()] = e
	}
	for _, e := range exts {
		for _, req := range e.Requires() {
			if _, ok := byName[req]; !ok {
				return nil, fmt.Errorf("%w: %s requires %s", ErrMissingRequirement, e.Name(), req)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(exts))
	out := make([]Extension, 0, len(exts))
	var path []string

	var visit func(e Extension) error
	visit = func(e Extension) error {
		switch state[e.Name()] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, n := range path {
				if n == e.Name() {
					start = i
				}
			}
			cycle := append(append([]string{}, path[start:]...), e.Name())
			return fmt.Errorf("%w: %s", ErrCyclicRequires, strings.Join(cycle, " -> "))
		}
		state[e.Name()] = visiting
		path = append(path, e.Name())
		for _, req := range e.Requires() {
			if err := visit(byName[req]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[e.Name()] = done
		out = append(out, e)
		return nil
	}
	for _, e := range exts {
		if err := visit(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Compose sorts exts and extends r and rd with each, once, in order. The
// sorted list is returned for hook dispatch.
func Compose(ctx *Context, r *reader.Reader, rd render.Renderer, exts []Extension) ([]Extension, error) {
	sorted, err := Sort(exts)
	if err != nil {
		return nil, err
	}
	for _, e := range sorted {
		ctx.Log.Debug().Str("extension", e.Name()).Msg("extending")
		if err := e.Extend(ctx, r, rd); err != nil {
			return nil, fmt.Errorf("extension %s: %w", e.Name(), err)
		}
	}
	for _, e := range sorted {
		if ri, ok := e.(Reinitializer); ok {
			rd.OnReinit(ri.Reinit)
		}
	}
	return sorted, nil
}
