package logger

import (
	"io"
	"log/slog"
	"time"
)

// Setup installs a CustomHandler writing to w as the slog default.
func Setup(w io.Writer, level slog.Leveler, color bool) {
	slog.SetDefault(slog.New(NewHandler(w, Options{Level: level, Color: color})))
}

// CommandRun describes one finished slash command invocation.
type CommandRun struct {
	Name     string
	UserID   string
	UserName string
	Status   string
	Took     time.Duration
	Err      error
}

// LogCommand logs the outcome of a command. Failures log at error level and
// slow runs at warn level.
func LogCommand(run CommandRun) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", run.Name),
		slog.String("user_id", run.UserID),
		slog.String("user_name", run.UserName),
		slog.String("status", run.Status),
		slog.Duration("took", run.Took),
	}

	switch {
	case run.Err != nil:
		slog.Error("Command failed", append(attrs, slog.Any("error", run.Err))...)
	case run.Status == "slow":
		slog.Warn("Command executed slowly", attrs...)
	default:
		slog.Info("Command completed", attrs...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
