package logger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

// SlowQueryThreshold promotes a successful query log line to WARN.
var SlowQueryThreshold = 500 * time.Millisecond

type QueryLogger struct {
	Operation string
	Query     string
	StartTime time.Time
}

func NewQueryLogger(operation, query string) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Query:     query,
		StartTime: time.Now(),
	}
}

// Log records the outcome of the query. sql.ErrNoRows is a normal result and
// is not reported as a failure.
func (l *QueryLogger) Log(err error, rowsAffected int64) {
	l.LogAt(time.Since(l.StartTime), err, rowsAffected)
}

func (l *QueryLogger) LogAt(duration time.Duration, err error, rowsAffected int64) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", l.Operation),
			slog.String("query", l.Query),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return
	}

	level := slog.LevelDebug
	if duration >= SlowQueryThreshold {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Query executed",
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.String("query", l.Query),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", rowsAffected),
	)
}
