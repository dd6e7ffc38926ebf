package tokens

import (
	"fmt"
)

// PropType constrains the values a property accepts.
type PropType int

// Property types.
const (
	TypeAny PropType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeStrings
)

// String returns the type name used in error messages.
func (t PropType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeStrings:
		return "[]string"
	default:
		return "any"
	}
}

// Prop declares one property of a Kind.
type Prop struct {
	Name     string
	Default  any
	Type     PropType
	Required bool
}

// Str declares a string property.
func Str(name, def string) Prop { return Prop{Name: name, Default: def, Type: TypeString} }

// Int declares an int property.
func Int(name string, def int) Prop { return Prop{Name: name, Default: def, Type: TypeInt} }

// Float declares a float64 property.
func Float(name string, def float64) Prop { return Prop{Name: name, Default: def, Type: TypeFloat} }

// Bool declares a bool property.
func Bool(name string, def bool) Prop { return Prop{Name: name, Default: def, Type: TypeBool} }

// Strings declares a []string property.
func Strings(name string) Prop { return Prop{Name: name, Type: TypeStrings} }

// Any declares an untyped property.
func Any(name string) Prop { return Prop{Name: name, Type: TypeAny} }

// Required marks p as required at construction.
func Required(p Prop) Prop {
	p.Required = true
	return p
}

// baseProps are carried by every Kind and map onto output attributes.
var baseProps = []Prop{
	Str("id", ""),
	Str("class", ""),
	Str("style", ""),
}

// Kind is the declarative schema of a token type. Kinds are created once at
// package init and compared by pointer.
type Kind struct {
	name  string
	props []Prop
	index map[string]int
}

// NewKind declares a token type. It panics on duplicate property names or
// defaults that violate their own type (programmer error, caught at init).
func NewKind(name string, props ...Prop) *Kind {
	k := &Kind{name: name, index: make(map[string]int, len(props)+len(baseProps))}
	for _, p := range append(append([]Prop{}, baseProps...), props...) {
		if _, dup := k.index[p.Name]; dup {
			panic(fmt.Sprintf("tokens: duplicate property %q on kind %s", p.Name, name))
		}
		if p.Default != nil {
			v, err := coerce(p, p.Default)
			if err != nil {
				panic(fmt.Sprintf("tokens: kind %s: %v", name, err))
			}
			p.Default = v
		}
		k.index[p.Name] = len(k.props)
		k.props = append(k.props, p)
	}
	return k
}

// Name returns the kind's type tag.
func (k *Kind) Name() string { return k.name }

// Props returns the declared properties in declaration order.
func (k *Kind) Props() []Prop {
	out := make([]Prop, len(k.props))
	copy(out, k.props)
	return out
}

// Has reports whether the kind declares a property.
func (k *Kind) Has(name string) bool {
	_, ok := k.index[name]
	return ok
}

func (k *Kind) String() string { return k.name }

// New constructs a token of this kind under parent (nil for a detached token).
// Unknown names, wrong types and missing required properties are rejected.
func (k *Kind) New(parent *Token, props Props) (*Token, error) {
	t := &Token{kind: k, values: make([]any, len(k.props))}
	for i, p := range k.props {
		t.values[i] = p.Default
	}
	for name, v := range props {
		if err := t.Set(name, v); err != nil {
			return nil, err
		}
	}
	for i, p := range k.props {
		if p.Required && t.values[i] == nil {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingProperty, k.name, p.Name)
		}
		if p.Required && p.Type == TypeString && t.values[i] == "" {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingProperty, k.name, p.Name)
		}
	}
	if parent != nil {
		parent.append(t)
	}
	return t, nil
}

// MustNew is New for construction sites whose properties are fixed in code.
func (k *Kind) MustNew(parent *Token, props Props) *Token {
	t, err := k.New(parent, props)
	if err != nil {
		panic(err)
	}
	return t
}

// coerce validates v against p, widening ints to floats.
func coerce(p Prop, v any) (any, error) {
	switch p.Type {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeInt:
		if n, ok := v.(int); ok {
			return n, nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeStrings:
		if s, ok := v.([]string); ok {
			return s, nil
		}
	case TypeAny:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s wants %s, got %T", ErrPropertyType, p.Name, p.Type, v)
}
