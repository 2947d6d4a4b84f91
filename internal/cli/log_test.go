package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("layout tick", "alpha", 0.5)
			l.Info("layout settled")

			out := buf.String()
			if got := strings.Contains(out, "layout tick"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v: %q", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "layout settled") {
				t.Errorf("info line missing: %q", out)
			}
		})
	}
}

func TestStopwatchLap(t *testing.T) {
	var buf bytes.Buffer
	sw := startStopwatch(newLogger(&buf, log.InfoLevel))
	sw.now = func() time.Time { return sw.start.Add(1500 * time.Millisecond) }

	sw.lap("Loaded sky", "nodes", 3)

	out := buf.String()
	for _, want := range []string{"Loaded sky", "nodes=3", "took=1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}

	ctx = context.WithValue(ctx, struct{ k string }{"other"}, "x")
	if got := loggerFromContext(ctx); got != l {
		t.Error("unrelated values should not hide the logger")
	}
}
