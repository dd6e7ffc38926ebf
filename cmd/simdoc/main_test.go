package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for p, content := range files {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("creating dir for %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
	return dir
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run(context.Background(), nil, env); code != ExitUsage {
		t.Errorf("run() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: simdoc") {
		t.Errorf("stderr = %q, want usage", stderr)
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run(context.Background(), []string{"version"}, env); code != ExitSuccess {
		t.Fatalf("run(version) = %d", code)
	}
	if got := stdout.String(); got != "simdoc dev\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run(context.Background(), []string{"publish"}, env); code != ExitUsage {
		t.Errorf("run(publish) = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), `unknown command "publish"`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run(context.Background(), []string{"help", "build"}, env); code != ExitSuccess {
		t.Fatalf("run(help build) = %d", code)
	}
	for _, want := range []string{"--renderer", "--pdf", "Exit codes"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRun_Build(t *testing.T) {
	t.Parallel()

	src := setupTestDir(t, map[string]string{
		"index.md":          "# Welcome\n\nSee the [guide](guide/intro.md).\n",
		"guide/intro.md":    "# Introduction\n\nSome *strong* text.\n",
		"guide/diagram.svg": "<svg/>",
	})
	dest := filepath.Join(t.TempDir(), "site")

	env, stdout, stderr := testEnv()
	code := run(context.Background(), []string{"build", "-q", "-o", dest, src}, env)
	if code != ExitSuccess {
		t.Fatalf("run(build) = %d, stderr:\n%s", code, stderr)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet build printed %q", stdout)
	}

	index, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	if !strings.Contains(string(index), `href="guide/intro.html"`) {
		t.Errorf("index.html has no resolved link:\n%s", index)
	}
	for _, p := range []string{"guide/intro.html", "guide/diagram.svg", "search.json"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(p))); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
}

func TestRun_BuildRecordsErrors(t *testing.T) {
	t.Parallel()

	src := setupTestDir(t, map[string]string{
		"index.md": "# Broken\n\n!nosuch command\n\nStill rendered.\n",
	})
	dest := filepath.Join(t.TempDir(), "site")

	env, stdout, stderr := testEnv()
	code := run(context.Background(), []string{"build", "-o", dest, src}, env)
	if code != ExitBuild {
		t.Fatalf("run(build) = %d, want %d", code, ExitBuild)
	}
	if !strings.Contains(stderr.String(), "nosuch") {
		t.Errorf("stderr does not report the failing command:\n%s", stderr)
	}
	if !strings.Contains(stdout.String(), "Built 1 pages") {
		t.Errorf("stdout = %q, want summary", stdout)
	}
	out, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatalf("page with a contained error was not written: %v", err)
	}
	if !strings.Contains(string(out), "Still rendered.") {
		t.Errorf("content after the error is missing:\n%s", out)
	}
}

func TestRun_Check(t *testing.T) {
	t.Parallel()

	src := setupTestDir(t, map[string]string{"index.md": "# Fine\n"})
	env, stdout, _ := testEnv()
	if code := run(context.Background(), []string{"check", src}, env); code != ExitSuccess {
		t.Fatalf("run(check) = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "Checked 1 pages") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_MissingSource(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	missing := filepath.Join(t.TempDir(), "missing")
	if code := run(context.Background(), []string{"check", missing}, env); code != ExitIO {
		t.Errorf("run(check missing) = %d, want %d", code, ExitIO)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"content/index.md": "# Configured\n",
		"simdoc.yaml": `renderer: latex
destination: out
sources:
  - dir: content
extensions:
  - name: core
  - name: command
`,
	})

	env, stdout, stderr := testEnv()
	cfgPath := filepath.Join(dir, "simdoc.yaml")
	if code := run(context.Background(), []string{"build", "-c", cfgPath}, env); code != ExitSuccess {
		t.Fatalf("run(build -c) = %d, stderr:\n%s", code, stderr)
	}
	tex, err := os.ReadFile(filepath.Join(dir, "out", "index.tex"))
	if err != nil {
		t.Fatalf("reading index.tex: %v", err)
	}
	if !strings.Contains(string(tex), `\documentclass`) {
		t.Errorf("index.tex is not a LaTeX document:\n%s", tex)
	}
	_ = stdout
}

func TestRun_ConfigCommand(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run(context.Background(), []string{"config", "-r", "materialize"}, env); code != ExitSuccess {
		t.Fatalf("run(config) = %d", code)
	}
	if !strings.Contains(stdout.String(), "renderer: materialize") {
		t.Errorf("config output = %q", stdout)
	}
}

func TestRun_UnknownExtension(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"content/index.md": "# A\n",
		"simdoc.yaml":      "extensions:\n  - name: tikz\n",
	})
	env, _, stderr := testEnv()
	code := run(context.Background(), []string{"check", "-c", filepath.Join(dir, "simdoc.yaml")}, env)
	if code != ExitUsage {
		t.Errorf("run(check) = %d, want %d", code, ExitUsage)
	}
	for _, want := range []string{"tikz", "hint: available extensions:", "listing"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr = %q, missing %q", stderr, want)
		}
	}
}
