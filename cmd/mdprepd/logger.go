package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the daemon's structured logger. Level falls back to
// info when the given string does not parse. Format selects between
// machine-readable JSON on stdout and a human-readable console writer
// on stderr.
func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "mdprepd").
		Logger()
}
