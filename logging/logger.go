package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

const levelTrace = slog.LevelDebug - 4

// Logger adapts a slog handler to the glog.Logger contract
type Logger struct {
	logger *slog.Logger
	ctx    context.Context
}

var _ glog.Logger = (*Logger)(nil)

// New creates a text logger writing to w at the given level name
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{logger: slog.New(handler)}
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Resolve returns logger, or a no-op logger when nil
func Resolve(logger glog.Logger) glog.Logger {
	if logger == nil {
		return glog.Nop()
	}
	return logger
}

func (l *Logger) Trace(msg string, args ...any) { l.log(levelTrace, msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// Fatal logs at error level and exits the process
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
	os.Exit(1)
}

// WithContext returns a logger that passes ctx to the handler
func (l *Logger) WithContext(ctx context.Context) glog.Logger {
	return &Logger{logger: l.logger, ctx: ctx}
}

// With returns a logger with the given attributes attached to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	l.logger.Log(ctx, level, msg, args...)
}
