// Package logging wires zerolog for cardmap.
//
// Verification runs log one event per applied field so a run in CI leaves
// a machine-readable trail next to the rewritten documents. On a terminal
// the same events are rendered by zerolog's console writer.
//
//	ctx := logging.WithTable(ctx, "extended")
//	logging.FromContext(ctx).Info().Int("changes", n).Msg("table applied")
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = newDefault()

// newDefault logs warnings and above to stderr until Configure is called.
func newDefault() zerolog.Logger {
	return zerolog.New(writerFor(os.Stderr, FormatAuto, os.Getenv("NO_COLOR") != "")).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger and the zerolog/log global.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// Terminal reports whether w is a character device.
func Terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
