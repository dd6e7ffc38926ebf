// Package settings parses and validates the key=value settings attached to
// commands and headings, and the option maps handed to extensions.
package settings

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Sentinel errors for settings parsing.
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid setting value")
	ErrMalformed      = errors.New("malformed settings")
)

// Type is the value type of a setting.
type Type int

// Setting types.
const (
	String Type = iota
	Int
	Float
	Bool
	List
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	default:
		return "string"
	}
}

// Def declares one setting: name, default, type and a description shown in
// diagnostics.
type Def struct {
	Name        string
	Default     any
	Type        Type
	Description string
}

// Schema is an ordered set of setting declarations.
type Schema []Def

// Lookup returns the declaration for name.
func (s Schema) Lookup(name string) (Def, bool) {
	for _, d := range s {
		if d.Name == name {
			return d, true
		}
	}
	return Def{}, false
}

// Merge returns s extended by other; entries in other replace same-named ones.
func (s Schema) Merge(other Schema) Schema {
	out := make(Schema, 0, len(s)+len(other))
	for _, d := range s {
		if _, dup := other.Lookup(d.Name); !dup {
			out = append(out, d)
		}
	}
	return append(out, other...)
}

// Names returns the declared names, sorted.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

// Defaults returns a Values populated with every default.
func (s Schema) Defaults() Values {
	v := make(Values, len(s))
	for _, d := range s {
		v[d.Name] = d.Default
	}
	return v
}

// Convert validates raw string pairs against the schema.
func (s Schema) Convert(raw map[string]string) (Values, error) {
	v := s.Defaults()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d, ok := s.Lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnknownSetting, k, strings.Join(s.Names(), ", "))
		}
		val, err := parseValue(d, raw[k])
		if err != nil {
			return nil, err
		}
		v[k] = val
	}
	return v, nil
}

// Validate checks an already-typed map, such as an extension option block
// decoded from YAML.
func (s Schema) Validate(in map[string]any) (Values, error) {
	v := s.Defaults()
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d, ok := s.Lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnknownSetting, k, strings.Join(s.Names(), ", "))
		}
		val, err := coerce(d, in[k])
		if err != nil {
			return nil, err
		}
		v[k] = val
	}
	return v, nil
}

// Parse splits text into key=value pairs and validates them.
func (s Schema) Parse(text string) (Values, error) {
	rest, raw, err := Split(text)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, fmt.Errorf("%w: unexpected text %q before settings", ErrMalformed, strings.TrimSpace(rest))
	}
	return s.Convert(raw)
}

var keyPattern = regexp.MustCompile(`(?:^|\s)([A-Za-z_][A-Za-z0-9_.-]*)=`)

// Split separates leading free text from trailing key=value pairs. A value
// runs until the next key= or the end of text; surrounding quotes are removed.
func Split(text string) (string, map[string]string, error) {
	raw := make(map[string]string)
	locs := keyPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, raw, nil
	}
	rest := text[:locs[0][0]]
	for i, loc := range locs {
		key := text[loc[2]:loc[3]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, dup := raw[key]; dup {
			return "", nil, fmt.Errorf("%w: duplicate key %q", ErrMalformed, key)
		}
		raw[key] = unquote(strings.TrimSpace(text[loc[1]:end]))
	}
	return rest, raw, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func parseValue(d Def, s string) (any, error) {
	switch d.Type {
	case Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an int", ErrInvalidValue, d.Name, s)
		}
		return n, nil
	case Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidValue, d.Name, s)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a bool", ErrInvalidValue, d.Name, s)
		}
		return b, nil
	case List:
		return strings.Fields(s), nil
	default:
		return s, nil
	}
}

func coerce(d Def, v any) (any, error) {
	if s, ok := v.(string); ok && d.Type != String {
		return parseValue(d, s)
	}
	switch d.Type {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Int:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case uint64:
			return int(n), nil
		}
	case Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case List:
		switch l := v.(type) {
		case []string:
			return l, nil
		case []any:
			out := make([]string, len(l))
			for i, e := range l {
				out[i] = fmt.Sprint(e)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s wants %s, got %T", ErrInvalidValue, d.Name, d.Type, v)
}
