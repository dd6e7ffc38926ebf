package latex

import "testing"

func TestRender(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	sec := Command(doc, "section")
	String(sec, "Costs & 50% off")
	it := Environment(doc, "itemize")
	item := Bare(it, "item")
	String(item, "first_item")
	lst := Environment(doc, "lstlisting")
	lst.Verbatim = true
	String(lst, `x := m["a_b"] // 100%`)
	Raw(doc, `\newpage`)

	want := `\section{Costs \& 50\% off}` +
		"\n\\begin{itemize}\n" +
		`\item first\_item` +
		"\n\\end{itemize}\n" +
		"\n\\begin{lstlisting}\n" +
		`x := m["a_b"] // 100%` +
		"\n\\end{lstlisting}\n" +
		`\newpage`
	if got := Render(doc); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	g := Command(doc, "includegraphics", "logo.png")
	g.Brace = false
	g.Optional = `width=\linewidth`
	c := Command(doc, "textcolor", "red")
	String(c, "warn")

	want := `\includegraphics[width=\linewidth]{logo.png}\textcolor{red}{warn}`
	if got := Render(doc); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{`a\b`, `a\textbackslash{}b`},
		{"#1 {x}", `\#1 \{x\}`},
		{"~^$", `\textasciitilde{}\textasciicircum{}\$`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	String(doc, "a")
	mark := doc.Count()
	g := Group(doc)
	String(g, "b")
	doc.Truncate(mark)
	if got := Render(doc); got != "a" {
		t.Errorf("Render() after Truncate = %q", got)
	}
}
