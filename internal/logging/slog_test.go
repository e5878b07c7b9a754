package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		level string
		log   func(l *SlogLogger)
	}{
		{"DEBUG", func(l *SlogLogger) { l.Debug(ctx, "msg") }},
		{"INFO", func(l *SlogLogger) { l.Info(ctx, "msg") }},
		{"WARN", func(l *SlogLogger) { l.Warn(ctx, "msg") }},
		{"ERROR", func(l *SlogLogger) { l.Error(ctx, "msg") }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, buf := newBufferLogger()
			tt.log(l)
			rec := lastRecord(t, buf)
			assert.Equal(t, tt.level, rec["level"])
			assert.Equal(t, "msg", rec["msg"])
		})
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	l, buf := newBufferLogger()
	child := l.With("module", "http_server")
	child.Info(context.Background(), "started", "addr", ":8080")

	rec := lastRecord(t, buf)
	assert.Equal(t, "http_server", rec["module"])
	assert.Equal(t, ":8080", rec["addr"])
}
