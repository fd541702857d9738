package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a small value type carrying the component, file and function that
// every record is tagged with. Copies are cheap, so Function and File return a
// new Logger instead of mutating the receiver.
type Logger struct {
	name     string
	file     string
	function string
	attrs    []any
}

func New(name string) Logger {
	return Logger{name: name}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) With(args ...any) Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	l.attrs = append(attrs, args...)
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.emit(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.emit(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.emit(slog.LevelWarn, msg, args...)
}

// Er logs err at error level without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.emit(slog.LevelError, msg, append(args, "error", err)...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.emit(slog.LevelError, msg, args...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

func (l Logger) emit(level slog.Level, msg string, args ...any) {
	log := slog.Default()
	ctx := context.Background()
	if !log.Enabled(ctx, level) {
		return
	}

	attrs := make([]any, 0, 6+len(l.attrs)+len(args))
	if l.name != "" {
		attrs = append(attrs, "component", l.name)
	}
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)

	log.Log(ctx, level, msg, attrs...)
}

// Setup installs the process-wide slog handler. format is "json" or "text".
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

func SetupWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
