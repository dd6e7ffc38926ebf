package tokens

// ErrorToken marks a span the reader could not tokenize.
var ErrorToken = NewKind("ErrorToken",
	Str("message", ""),
	Str("raw", ""),
	Bool("inline", false),
)

// Exception replaces a token whose render function failed.
var Exception = NewKind("Exception",
	Str("message", ""),
	Str("trace", ""),
	Str("kind", ""),
	Str("raw", ""),
	Bool("inline", false),
)

// NewError appends an ErrorToken holding the raw span and diagnostic.
func NewError(parent *Token, raw, message string, line int, inline bool) *Token {
	t := ErrorToken.MustNew(parent, Props{"message": message, "raw": raw, "inline": inline})
	t.info = &Info{Line: line, Raw: raw, Pattern: "ErrorToken"}
	return t
}

// NewException builds a detached Exception standing in for failed. The
// exception keeps failed's location and owner so diagnostics can name them.
func NewException(failed *Token, message, trace string) *Token {
	raw := ""
	line := 0
	if info := failed.Info(); info != nil {
		raw = info.Raw
		line = info.Line
	}
	t := Exception.MustNew(nil, Props{
		"message": message,
		"trace":   trace,
		"kind":    failed.Name(),
		"raw":     raw,
		"inline":  IsInline(failed),
	})
	t.info = &Info{Line: line, Raw: raw, Pattern: "Exception"}
	t.owner = failed.Owner()
	return t
}

// IsInline reports whether t sits inside a text-bearing block, judged by the
// "inline" property when declared, otherwise by its parent chain.
func IsInline(t *Token) bool {
	if t.kind.Has("inline") {
		return t.Bool("inline")
	}
	for p := t.parent; p != nil; p = p.parent {
		if inlineKinds[p.kind] {
			return true
		}
	}
	return false
}

var inlineKinds = map[*Kind]bool{}

// MarkInline registers kinds whose children are inline content, such as
// paragraphs and headings.
func MarkInline(kinds ...*Kind) {
	for _, k := range kinds {
		inlineKinds[k] = true
	}
}
