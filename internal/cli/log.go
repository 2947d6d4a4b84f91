// Package cli implements the nightsky command-line interface.
//
// The commands load a sky document, run the force layout and then either
// write a frame, serve interactive sessions over HTTP, or open a terminal
// picker to inspect individual stars. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Write a settled frame as PNG or SVG, optionally after clicks
//   - serve: Host interactive sessions over HTTP
//   - filter: Validate filter bounds
//   - pick: Choose a star interactively and show its tooltip
//   - dot: Export the settled sky as Graphviz DOT or SVG
//   - cache: Manage the document cache
//   - config: Write or locate the configuration file
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

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs a step at info level once it finishes, with the elapsed
// time under the "took" key.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now(), now: time.Now}
}

func (s *stopwatch) elapsed() time.Duration {
	return s.now().Sub(s.start).Round(time.Millisecond)
}

// lap logs msg with keyvals and the time since the stopwatch started.
func (s *stopwatch) lap(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "took", s.elapsed())...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
