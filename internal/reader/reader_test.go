package reader

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-simdoc/internal/diag"
	"github.com/alnah/go-simdoc/internal/grammar"
	"github.com/alnah/go-simdoc/internal/logging"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/tokens"
)

var (
	testBox  = tokens.NewKind("TestBox")
	testPara = tokens.NewKind("TestPara")
	testWord = tokens.NewKind("TestWord", tokens.Str("content", ""))
)

func newTestReader(t *testing.T, diags *diag.Collector) *Reader {
	t.Helper()
	r := New(logging.Nop(), diags)

	box := ComponentFunc(func(parent *tokens.Token, m *Match, _ *pages.Page) (*tokens.Token, error) {
		return testBox.MustNew(parent, nil), nil
	})
	bad := ComponentFunc(func(parent *tokens.Token, m *Match, _ *pages.Page) (*tokens.Token, error) {
		testPara.MustNew(parent, nil) // partial output must be dropped
		return nil, errors.New("bad construct")
	})
	boom := ComponentFunc(func(*tokens.Token, *Match, *pages.Page) (*tokens.Token, error) {
		panic("boom")
	})
	para := ComponentFunc(func(parent *tokens.Token, m *Match, _ *pages.Page) (*tokens.Token, error) {
		return testPara.MustNew(parent, nil), nil
	})
	blank := ComponentFunc(func(*tokens.Token, *Match, *pages.Page) (*tokens.Token, error) {
		return nil, nil
	})
	word := ComponentFunc(func(parent *tokens.Token, m *Match, _ *pages.Page) (*tokens.Token, error) {
		return testWord.MustNew(parent, tokens.Props{"content": m.Text()}), nil
	})

	steps := []error{
		r.AddBlock("box", grammar.Regex(`\[\[\n(?P<block>(?s:.*?))\]\]\n?`), box, grammar.End),
		r.AddBlock("bad", grammar.Regex(`!bad[^\n]*\n?`), bad, grammar.End),
		r.AddBlock("boom", grammar.Regex(`!boom[^\n]*\n?`), boom, grammar.End),
		r.AddBlock("blank", grammar.Regex(`\n+`), blank, grammar.End),
		r.AddBlock("para", grammar.Regex(`(?P<inline>[^\n]+)\n?`), para, grammar.End),
		r.AddInline("word", grammar.Regex(`\w+`), word, grammar.End),
		r.AddInline("space", grammar.Regex(` +`), blank, grammar.End),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func TestTokenize_BlockAndInline(t *testing.T) {
	t.Parallel()

	r := newTestReader(t, nil)
	root := tokens.NewRoot(nil)
	s := r.Tokenize(root, "hello world\n\n[[\nnested words\n]]\n", nil)

	if s.Errors() != 0 || s.State() != StateDone {
		t.Fatalf("Errors() = %d, State() = %s", s.Errors(), s.State())
	}
	want := "Root\n" +
		"  TestPara\n" +
		"    TestWord content=hello\n" +
		"    TestWord content=world\n" +
		"  TestBox\n" +
		"    TestPara\n" +
		"      TestWord content=nested\n" +
		"      TestWord content=words\n"
	if diff := cmp.Diff(want, root.Dump()); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}

	words := root.Find(testWord)
	if got := words[2].Line(); got != 4 {
		t.Errorf("nested word line = %d, want 4", got)
	}
}

func TestTokenize_ContainsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		cause string
	}{
		{"component error", "before\n!bad construct\nafter\n", "bad construct"},
		{"component panic", "before\n!boom\nafter\n", "panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			diags := diag.NewCollector()
			r := newTestReader(t, diags)
			root := tokens.NewRoot(nil)
			s := r.Tokenize(root, tt.input, nil)

			if s.Errors() != 1 {
				t.Fatalf("Errors() = %d, want 1", s.Errors())
			}
			errs := root.Find(tokens.ErrorToken)
			if len(errs) != 1 {
				t.Fatalf("ErrorTokens = %d, want exactly 1", len(errs))
			}
			if errs[0].Line() != 2 || !strings.Contains(errs[0].String("message"), tt.cause) {
				t.Errorf("error token line=%d message=%q", errs[0].Line(), errs[0].String("message"))
			}

			var names []string
			for _, c := range root.Children() {
				names = append(names, c.Name())
			}
			if diff := cmp.Diff([]string{"TestPara", "ErrorToken", "TestPara"}, names); diff != "" {
				t.Errorf("scan did not resume (-want +got):\n%s", diff)
			}

			items := diags.Items()
			if len(items) != 1 || items[0].Stage != diag.StageTokenize || items[0].Line != 2 {
				t.Errorf("diagnostics = %+v", items)
			}
		})
	}
}

func TestTokenize_FailureDropsScheduledInline(t *testing.T) {
	t.Parallel()

	diags := diag.NewCollector()
	r := newTestReader(t, diags)
	half := ComponentFunc(func(parent *tokens.Token, m *Match, _ *pages.Page) (*tokens.Token, error) {
		tok := testPara.MustNew(parent, nil)
		m.Scanner.Inline(tok, "a-b", m.Line)
		return nil, errors.New("half done")
	})
	if err := r.AddBlock("half", grammar.Regex(`!half[^\n]*\n?`), half, grammar.Begin); err != nil {
		t.Fatal(err)
	}

	root := tokens.NewRoot(nil)
	s := r.Tokenize(root, "!half\nafter\n", nil)

	if s.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", s.Errors())
	}
	if n := len(diags.Items()); n != 1 {
		t.Errorf("diagnostics = %d, want 1", n)
	}
	if n := len(root.Find(tokens.ErrorToken)); n != 1 {
		t.Errorf("ErrorTokens = %d, want 1", n)
	}
}

func TestTokenize_NoMatch(t *testing.T) {
	t.Parallel()

	r := newTestReader(t, nil)
	root := tokens.NewRoot(nil)
	s := r.Tokenize(root, "a-b\n", nil)

	if s.Errors() != 1 {
		t.Fatalf("Errors() = %d, want 1", s.Errors())
	}
	e := root.Find(tokens.ErrorToken)[0]
	if e.String("raw") != "-" || !e.Bool("inline") {
		t.Errorf("error token raw=%q inline=%v", e.String("raw"), e.Bool("inline"))
	}
	if got := len(root.Find(testWord)); got != 2 {
		t.Errorf("words = %d, want 2", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("a\r\nb\rc\td"); got != "a\nb\nc    d" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestAddBlock_Duplicate(t *testing.T) {
	t.Parallel()

	r := newTestReader(t, nil)
	err := r.AddBlock("para", grammar.Regex(`x`), nil, grammar.End)
	if !errors.Is(err, grammar.ErrDuplicateName) {
		t.Errorf("AddBlock() error = %v, want ErrDuplicateName", err)
	}
	if diff := cmp.Diff([]string{"box", "bad", "boom", "blank", "para"}, r.BlockNames()); diff != "" {
		t.Errorf("BlockNames() mismatch (-want +got):\n%s", diff)
	}
}
