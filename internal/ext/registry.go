package ext

import (
	"fmt"
	"sort"

	"github.com/alnah/go-simdoc/internal/settings"
)

// Factory constructs an extension from its validated options.
type Factory struct {
	Name    string
	Options settings.Schema
	New     func(opts settings.Values) (Extension, error)
}

// Registry maps extension names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding fs.
func NewRegistry(fs ...Factory) (*Registry, error) {
	r := &Registry{factories: make(map[string]Factory, len(fs))}
	for _, f := range fs {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds f.
func (r *Registry) Register(f Factory) error {
	if _, dup := r.factories[f.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateExtension, f.Name)
	}
	r.factories[f.Name] = f
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Options returns the option schema of name.
func (r *Registry) Options(name string) (settings.Schema, bool) {
	f, ok := r.factories[name]
	return f.Options, ok
}

// Build validates opts against the factory schema and constructs name.
func (r *Registry) Build(name string, opts map[string]any) (Extension, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	vals, err := f.Options.Validate(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, name, err)
	}
	e, err := f.New(vals)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, name, err)
	}
	return e, nil
}
