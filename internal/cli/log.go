// Package cli implements the kbmatrix command-line interface.
//
// The CLI wraps the two pipeline stages in cobra commands: convert repairs a
// layout dump into JSON Lines, sort orders such a file by matrix position,
// and run does both in sequence. Paths come from positional arguments and
// flags, then from an optional TOML config file, then from built-in
// defaults.
//
// # Output
//
// Diagnostics (per-object warnings, debug output) go to stderr through a
// charmbracelet/log logger. The short human summary goes to stdout, unless
// records themselves are being written to stdout with "-o -", in which case
// the summary moves to stderr.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and injected into the pipeline runner.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level, with
// timestamps formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a stage took. It is meant for sequential use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level with the elapsed time rounded to the
// millisecond, e.g. "convert done elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Debug(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored in ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
