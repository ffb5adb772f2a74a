package logger

import (
	"log/slog"
	"time"
)

// QueryLogger times one repository operation.
type QueryLogger struct {
	Operation string
	Entity    string
	StartTime time.Time
}

func NewQueryLogger(operation, entity string) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Entity:    entity,
		StartTime: time.Now(),
	}
}

// Log reports the outcome at debug level, or at error level when err is set.
// rowsAffected below zero is omitted.
func (l *QueryLogger) Log(err error, rowsAffected int64) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.String("entity", l.Entity),
		slog.Duration("took", time.Since(l.StartTime)),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
		return
	}
	if rowsAffected >= 0 {
		attrs = append(attrs, slog.Int64("affected_rows", rowsAffected))
	}
	slog.Debug("Query executed", attrs...)
}
