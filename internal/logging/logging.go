// Package logging builds the logr.Logger used across hfetch.
//
// Loggers are backed by zerolog and travel through context.Context, so code
// that wants to trace does logr.FromContextOrDiscard(ctx).V(1).Info(...).
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// DefaultLevel hides everything but errors, keeping stderr reserved for the
// fetch diagnostics.
const DefaultLevel = zerolog.ErrorLevel

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
}

// New returns a logger writing to w at the given level. Terminals get the
// human-readable console format, anything else gets JSON lines.
func New(w io.Writer, level zerolog.Level) logr.Logger {
	if IsTerminal(w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return zerologr.New(&zl).WithName("hfetch")
}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
