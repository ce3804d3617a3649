// Package cli implements the galaxygen command-line interface.
//
// The CLI is built using cobra and logs with charmbracelet/log. Settings are
// read once, before any command runs, from the file named by --config,
// $GALAXYGEN_CONFIG or ./settings.toml.
//
// # Commands
//
// The main commands are:
//   - generate: Paint a galaxy and write the enabled artifacts
//   - serve: Render galaxies over HTTP
//   - survey: Run many seeds and report placement statistics
//   - types: List the configured galaxy types
//   - config: Write or show the settings file
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a multi-seed job such as a survey. step logs each finished
// unit at debug level with its own duration; done logs the whole job at info.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
	steps  int
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs msg with keyvals, the running step count and the time since the
// previous step.
func (p *progress) step(msg string, keyvals ...any) {
	now := time.Now()
	p.steps++
	keyvals = append(keyvals, "step", p.steps, "took", now.Sub(p.last).Round(time.Millisecond))
	p.logger.Debug(msg, keyvals...)
	p.last = now
}

// done logs msg with the elapsed time since the job started, e.g.
// "Surveyed 10 seeds (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
