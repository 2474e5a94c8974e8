package logger

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureDefault(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestQueryLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		took     time.Duration
		err      error
		wantText string
	}{
		{name: "fast", took: time.Millisecond, wantText: "level=DEBUG"},
		{name: "slow", took: SlowQueryThreshold, wantText: "level=WARN"},
		{name: "no rows is not a failure", took: time.Millisecond, err: sql.ErrNoRows, wantText: "level=DEBUG"},
		{name: "failure", took: time.Millisecond, err: errors.New("deadlock"), wantText: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureDefault(t, slog.LevelDebug)
			NewQueryLogger("select", "SELECT 1").LogAt(tt.took, tt.err, 1)
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("log %q does not contain %q", buf.String(), tt.wantText)
			}
		})
	}
}
