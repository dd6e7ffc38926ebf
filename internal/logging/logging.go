// Package logging builds the zerolog loggers used across a build.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-simdoc/internal/diag"
)

// Level names accepted in configuration and on the command line.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config controls logger construction.
type Config struct {
	Level   string    // debug, info, warn, error (default info)
	Console bool      // human-readable output instead of JSON
	Out     io.Writer // defaults to os.Stderr
}

// New returns a logger writing to cfg.Out.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().
		Timestamp().
		Str("app", "simdoc").
		Logger()
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Nop returns a disabled logger, handy for tests.
func Nop() zerolog.Logger { return zerolog.Nop() }

// Report logs d with its boxed rendering and structured fields.
func Report(log zerolog.Logger, d diag.Diagnostic) {
	ev := log.Warn()
	if d.Level == diag.Error {
		ev = log.Error()
	}
	ev.Str("stage", string(d.Stage)).
		Str("page", d.Page).
		Int("line", d.Line).
		Msg("\n" + d.Box())
}
