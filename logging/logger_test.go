package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
	assert.True(t, ParseLevel("trace") < slog.LevelDebug)
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden message")
	logger.Warn("visible message", "contacts", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible message")
	assert.Contains(t, out, "contacts=3")
}

func TestLoggerWithContextAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug").With("component", "test")

	logger.WithContext(context.Background()).Debug("scoped")

	assert.Contains(t, buf.String(), "component=test")
	assert.Contains(t, buf.String(), "scoped")
}

func TestResolveFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Resolve(nil))

	logger := New(&bytes.Buffer{}, "info")
	assert.Same(t, logger, Resolve(logger))
}
