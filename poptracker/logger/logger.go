package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeHealth  LogType = "HEALTH"
	TypeError   LogType = "ERR"
)

// Options configures a CustomHandler.
type Options struct {
	Level slog.Leveler
	// Color wraps each line in ANSI colour codes.
	Color bool
	// TimeFormat is the layout of the leading timestamp.
	TimeFormat string
}

// CustomHandler writes one line per record:
//
//	[PopTracker] [15:04:05] [INFO] [CMD] message [name by user] [Status: ok] (took 3ms) key=value
type CustomHandler struct {
	opts   Options
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func NewHandler(w io.Writer, opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}
	return &CustomHandler{
		opts: opts,
		mu:   new(sync.Mutex),
		w:    w,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	fields := collect(h.attrs, &r)

	message := r.Message
	if r.Level >= slog.LevelError {
		location := fields.errorLocation
		if location == "" {
			location = sourceLocation(r.PC)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if fields.errorDetails != "" {
			message = fmt.Sprintf("%s: %s", message, fields.errorDetails)
		}
	}

	if fields.command != "" && fields.userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields.command, fields.userName)
	}
	if fields.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields.status)
	}
	if fields.took != "" {
		message = fmt.Sprintf("%s (took %s)", message, fields.took)
	}

	var sb strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, attr := range fields.extra {
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, attr.Value)
	}

	timestamp := r.Time.Format(h.opts.TimeFormat)
	var line string
	if h.opts.Color {
		line = fmt.Sprintf("%s[PopTracker] [%s] [%s%s%s] [%s] %s%s%s\n",
			colorWhite, timestamp, levelColor, levelText, colorWhite,
			fields.logType, message, sb.String(), colorReset)
	} else {
		line = fmt.Sprintf("[PopTracker] [%s] [%s] [%s] %s%s\n",
			timestamp, levelText, fields.logType, message, sb.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

type recordFields struct {
	logType       LogType
	status        string
	userName      string
	command       string
	took          string
	errorDetails  string
	errorLocation string
	extra         []slog.Attr
}

func collect(handlerAttrs []slog.Attr, r *slog.Record) recordFields {
	f := recordFields{logType: TypeSystem}
	visit := func(a slog.Attr) {
		switch a.Key {
		case "type":
			f.logType = logTypeOf(a.Value.String())
		case "status":
			f.status = a.Value.String()
		case "user_name":
			f.userName = a.Value.String()
		case "name":
			f.command = a.Value.String()
		case "took":
			f.took = a.Value.String()
		case "error":
			f.errorDetails = fmt.Sprintf("%v", a.Value.Any())
		case "error_location":
			f.errorLocation = a.Value.String()
		default:
			f.extra = append(f.extra, a)
		}
	}
	for _, a := range handlerAttrs {
		visit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		visit(a)
		return true
	})
	return f
}

func logTypeOf(s string) LogType {
	switch s {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "health":
		return TypeHealth
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func shouldSkipLog(r *slog.Record) bool {
	// gateway and rest chatter from disgo
	skippedMessages := []string{
		"locking buckets",
		"unlocking buckets",
		"gateway event",
		"cleaning up bucket",
		"cleaned up rate limit buckets",
		"binary message received",
		"received gateway message",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"sending gateway command",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
		"rate limit response headers",
		"sending heartbeat",
	}

	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
