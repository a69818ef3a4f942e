package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	l.Debug("hidden")
	l.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info message missing")
	}
}

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext returned a different logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("missing logger should fall back to log.Default()")
	}
}
