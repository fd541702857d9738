package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	SetupWriter(&buf, level, "json")
	return &buf
}

func TestLogger_TagsComponentFileAndFunction(t *testing.T) {
	buf := captureJSON(t, "debug")

	New("leadController").File("lead.controller").Function("Create").Info("created lead", "leadID", "abc")

	out := buf.String()
	assert.Contains(t, out, `"component":"leadController"`)
	assert.Contains(t, out, `"file":"lead.controller"`)
	assert.Contains(t, out, `"function":"Create"`)
	assert.Contains(t, out, `"leadID":"abc"`)
}

func TestLogger_ErrWrapsCause(t *testing.T) {
	captureJSON(t, "error")

	cause := errors.New("connection refused")
	err := New("database").Function("New").Err("failed to open database", cause, "path", "x.db")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to open database: connection refused", err.Error())
}

func TestLogger_ErrorReturnsMessage(t *testing.T) {
	captureJSON(t, "error")

	err := New("database").Error("database path is empty", "dbPath", "")
	assert.EqualError(t, err, "database path is empty")
	assert.EqualError(t, New("app").ErrMsg("config is nil"), "config is nil")
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := captureJSON(t, "warn")

	log := New("test")
	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_WithDoesNotLeakBetweenCopies(t *testing.T) {
	buf := captureJSON(t, "info")

	base := New("test").With("requestID", "r1")
	_ = base.With("extra", "only-here")
	base.Info("message")

	assert.Contains(t, buf.String(), `"requestID":"r1"`)
	assert.NotContains(t, buf.String(), "only-here")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}
