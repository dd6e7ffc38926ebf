package diag

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBox(t *testing.T) {
	t.Parallel()

	d := Diagnostic{
		Level:     Error,
		Stage:     StageTokenize,
		Page:      "guide/intro.md",
		Line:      12,
		Construct: "!media missing.png\nwidth=10",
		Cause:     "file not found",
	}
	want := strings.Join([]string{
		"+------------------------------------+",
		"| ERROR (tokenize) guide/intro.md:12 |",
		"| construct: !media missing.png ...  |",
		"| cause: file not found              |",
		"+------------------------------------+",
	}, "\n")
	if got := d.Box(); got != want {
		t.Errorf("Box() =\n%s\nwant\n%s", got, want)
	}
}

func TestBox_LongConstruct(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Level: Warning, Stage: StageRender, Page: "a.md", Construct: strings.Repeat("x", 100), Cause: "c"}
	box := d.Box()
	if !strings.Contains(box, strings.Repeat("x", maxConstructWidth)+"...") {
		t.Errorf("construct not truncated:\n%s", box)
	}
	if !strings.Contains(box, "WARNING (render) a.md ") {
		t.Errorf("header without line:\n%s", box)
	}
}

func TestCollector(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	var wg sync.WaitGroup
	for _, d := range []Diagnostic{
		{Level: Error, Page: "b.md", Line: 1},
		{Level: Warning, Page: "a.md", Line: 9},
		{Level: Error, Page: "a.md", Line: 2},
	} {
		wg.Add(1)
		go func(d Diagnostic) {
			defer wg.Done()
			c.Add(d)
		}(d)
	}
	wg.Wait()

	errs, warns := c.Counts()
	if errs != 2 || warns != 1 {
		t.Errorf("Counts() = %d, %d, want 2, 1", errs, warns)
	}
	var order []string
	for _, d := range c.Items() {
		order = append(order, d.Page+":"+string(rune('0'+d.Line)))
	}
	if diff := cmp.Diff([]string{"a.md:2", "a.md:9", "b.md:1"}, order); diff != "" {
		t.Errorf("Items() order mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.ForPage("a.md")); got != 2 {
		t.Errorf("ForPage() = %d, want 2", got)
	}
	c.Reset()
	if errs, warns := c.Counts(); errs+warns != 0 {
		t.Error("Reset() kept diagnostics")
	}
}
