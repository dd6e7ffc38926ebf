package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	simdoc "github.com/alnah/go-simdoc"
	"github.com/alnah/go-simdoc/internal/config"
	"github.com/alnah/go-simdoc/internal/logging"
)

type mode int

const (
	modeBuild mode = iota
	modeCheck
)

func (m mode) String() string {
	if m == modeCheck {
		return "check"
	}
	return "build"
}

// runBuild implements the build and check commands.
func runBuild(ctx context.Context, args []string, env *Environment, m mode) error {
	flags, positional, err := parseBuildFlags(m.String(), args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(flags, positional)
	if err != nil {
		return err
	}

	log := newLogger(cfg, env.Stderr)
	sources, opts := builderOptions(cfg, log)
	b, err := simdoc.NewBuilder(sources, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	var rep simdoc.Report
	if m == modeCheck {
		rep, err = b.Check(ctx)
	} else {
		rep, err = b.Build(ctx, cfg.Destination)
	}
	if err != nil {
		return err
	}

	printReport(env, m, rep, b.Diagnostics(), flags.quiet)
	if !rep.OK() {
		return fmt.Errorf("%w: %d errors in %d pages", ErrBuild, rep.Errors, len(rep.Failed()))
	}
	return nil
}

// resolveConfig loads the config file, if any, then applies the command
// line on top of it (CLI wins).
func resolveConfig(flags *buildFlags, positional []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	mergeFlags(flags, positional, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFlags(flags *buildFlags, positional []string, cfg *config.Config) {
	if len(positional) == 1 {
		cfg.Sources = []config.SourceConfig{{Dir: positional[0]}}
	}
	if flags.changed("renderer") {
		cfg.Renderer = flags.renderer
	}
	if flags.changed("output") {
		cfg.Destination = flags.dest
	}
	if flags.changed("workers") {
		cfg.Workers = flags.workers
	}
	if flags.changed("assets") {
		cfg.Assets.BasePath = flags.assets
	}
	if flags.pdf {
		cfg.PDF.Enabled = true
	}
	if flags.keepHTML {
		cfg.PDF.KeepHTML = true
	}
	if flags.changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if flags.verbose {
		cfg.Log.Level = logging.LevelDebug
	}
	if flags.quiet {
		cfg.Log.Level = logging.LevelError
	}
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	return logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console || interactive(w),
		Out:     w,
	})
}

// builderOptions translates cfg into library options.
func builderOptions(cfg *config.Config, log zerolog.Logger) ([]simdoc.Source, []simdoc.Option) {
	sources := make([]simdoc.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, simdoc.Source{Dir: s.Dir, Prefix: s.Prefix})
	}

	opts := []simdoc.Option{
		simdoc.WithLogger(log),
		simdoc.WithRenderer(cfg.Renderer),
		simdoc.WithWorkers(cfg.Workers),
		simdoc.WithCollapsible(simdoc.Collapsible(cfg.Collapsible())),
		simdoc.WithAssetPath(cfg.Assets.BasePath),
	}
	if len(cfg.Extensions) > 0 {
		exts := make([]simdoc.Extension, 0, len(cfg.Extensions))
		for _, e := range cfg.Extensions {
			exts = append(exts, simdoc.Extension{Name: e.Name, Options: e.Options})
		}
		opts = append(opts, simdoc.WithExtensions(exts...))
	}
	if cfg.PDF.Enabled {
		opts = append(opts, simdoc.WithPDF(cfg.PDF.KeepHTML, cfg.PDFTimeout()))
	}
	return sources, opts
}

// printReport writes every diagnostic to stderr and a summary to stdout.
func printReport(env *Environment, m mode, rep simdoc.Report, diags []simdoc.Diagnostic, quiet bool) {
	for _, d := range diags {
		fmt.Fprintln(env.Stderr, d.Box())
	}
	if quiet {
		return
	}
	verb := "Built"
	if m == modeCheck {
		verb = "Checked"
	}
	fmt.Fprintf(env.Stdout, "%s %d pages", verb, rep.Pages)
	if m == modeBuild {
		fmt.Fprintf(env.Stdout, ", copied %d files", rep.Files)
	}
	fmt.Fprintf(env.Stdout, " in %s: %d errors, %d warnings\n", rep.Duration.Round(time.Millisecond), rep.Errors, rep.Warnings)
}

// runConfig prints the effective configuration.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags("config", args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(flags, positional)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(data)
	return err
}
