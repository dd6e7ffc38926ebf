package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-simdoc/internal/config"
)

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantPositional []string
		wantErr        bool
		check          func(t *testing.T, f *buildFlags)
	}{
		{
			name:           "no args",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "source and short flags",
			args:           []string{"-r", "latex", "-o", "out", "-w", "3", "doc/content"},
			wantPositional: []string{"doc/content"},
			check: func(t *testing.T, f *buildFlags) {
				if f.renderer != "latex" || f.dest != "out" || f.workers != 3 {
					t.Errorf("flags = %+v", f)
				}
			},
		},
		{
			name:           "long flags",
			args:           []string{"--config", "simdoc", "--pdf", "--keep-html", "--log-level", "warn"},
			wantPositional: []string{},
			check: func(t *testing.T, f *buildFlags) {
				if f.config != "simdoc" || !f.pdf || !f.keepHTML || f.logLevel != "warn" {
					t.Errorf("flags = %+v", f)
				}
			},
		},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
		{name: "two sources", args: []string{"a", "b"}, wantErr: true},
		{name: "quiet and verbose", args: []string{"-q", "-V"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, positional, err := parseBuildFlags("build", tt.args)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("parseBuildFlags() error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBuildFlags() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantPositional, positional); diff != "" {
				t.Errorf("positional mismatch (-want +got):\n%s", diff)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseBuildFlags("build", []string{"-r", "materialize", "-w", "0", "-V", "src"})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Workers = 6
	cfg.Destination = "public"
	mergeFlags(f, positional, cfg)

	if cfg.Renderer != "materialize" {
		t.Errorf("Renderer = %q, want materialize", cfg.Renderer)
	}
	// Explicit zero overrides the config file.
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	// Unset flags keep the config value.
	if cfg.Destination != "public" {
		t.Errorf("Destination = %q, want public", cfg.Destination)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	want := []config.SourceConfig{{Dir: "src"}}
	if diff := cmp.Diff(want, cfg.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
}
