package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	logger.Info("lesson created", "lesson_id", "lesson-1")

	out := buf.String()
	assert.Contains(t, out, `"msg":"lesson created"`)
	assert.Contains(t, out, `"lesson_id":"lesson-1"`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNew_PrettyOutsideProduction(t *testing.T) {
	for _, env := range []string{"development", "staging", ""} {
		t.Run(env, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Writer: &buf, Environment: env, Level: slog.LevelInfo})

			logger.Info("hello")

			assert.Contains(t, buf.String(), "INF")
			assert.NotContains(t, buf.String(), `"msg"`)
		})
	}
}

func TestNew_ExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Environment: "development", Format: "json"})

	logger.Info("hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "ERR")
}

func TestPrettyHandler_NilOptionsDefaultsToInfo(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelInfo, "request done", 0)
	r.AddAttrs(
		slog.String("path", "/all-lessons"),
		slog.Int("status", 200),
		slog.Duration("duration", 1500*time.Millisecond),
		slog.String("note", "has space"),
	)
	require.NoError(t, h.Handle(context.Background(), r))

	out := buf.String()
	assert.Contains(t, out, "03:04:05")
	assert.Contains(t, out, "request done")
	assert.Contains(t, out, "path=/all-lessons")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "duration=1.5s")
	assert.Contains(t, out, `note="has space"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, nil))

	logger.With("component", "store").WithGroup("txn").Info("retry", "attempt", 2)

	out := buf.String()
	assert.Contains(t, out, "component=store")
	assert.Contains(t, out, "txn.attempt=2")
}

func TestLogger_ForComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Format: "json"})

	logger.ForComponent("payments").Info("intent created")

	assert.Contains(t, buf.String(), `"component":"payments"`)
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Format: "json"})

	logger.WithError(errors.New("disk full")).Error("write failed")

	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	logger.Error("nobody hears this")
}
