package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// buildFlags holds the flags of the build and check commands.
type buildFlags struct {
	config   string
	renderer string
	dest     string
	workers  int
	assets   string
	pdf      bool
	keepHTML bool
	logLevel string
	quiet    bool
	verbose  bool

	set *flag.FlagSet
}

// changed reports whether name was given on the command line.
func (f *buildFlags) changed(name string) bool {
	return f.set.Changed(name)
}

func newBuildFlagSet(name string, f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.renderer, "renderer", "r", "", "output format: html, materialize, latex")
	fs.StringVarP(&f.dest, "output", "o", "", "destination directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.assets, "assets", "", "directory overriding templates and styles")
	fs.BoolVar(&f.pdf, "pdf", false, "print HTML pages to PDF")
	fs.BoolVar(&f.keepHTML, "keep-html", false, "keep HTML pages next to PDF output")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "V", false, "debug logging")
	return fs
}

// parseBuildFlags parses args and returns the flags and positional
// arguments.
func parseBuildFlags(name string, args []string) (*buildFlags, []string, error) {
	f := &buildFlags{}
	f.set = newBuildFlagSet(name, f)
	if err := f.set.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.quiet && f.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	positional := f.set.Args()
	if len(positional) > 1 {
		return nil, nil, fmt.Errorf("%w: expected at most one source directory, got %d", ErrUsage, len(positional))
	}
	return f, positional, nil
}
