package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/contextkeys"
)

// LogLevel is the minimum severity a Logger writes
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levels = [...]struct {
	name  string
	level slog.Level
}{
	DebugLevel: {"DEBUG", slog.LevelDebug},
	InfoLevel:  {"INFO", slog.LevelInfo},
	WarnLevel:  {"WARN", slog.LevelWarn},
	ErrorLevel: {"ERROR", slog.LevelError},
}

func (l LogLevel) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "INFO"
	}
	return levels[l].name
}

func (l LogLevel) toSlog() slog.Level {
	if l < DebugLevel || l > ErrorLevel {
		return slog.LevelInfo
	}
	return levels[l].level
}

// ParseLevel reads a level name as found in configuration files
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Logger writes JSON lines through slog. Derived loggers share the output
// and add fields to every line.
type Logger struct {
	base *slog.Logger
}

// NewLogger creates a logger writing to output, stdout when nil
func NewLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level.toSlog()})
	return &Logger{base: slog.New(handler)}
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{base: l.base.With(args...)}
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.with(key, value)
}

// WithFields adds fields in key order
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return l.with(args...)
}

// WithError adds the error message, a nil error leaves the logger unchanged
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with("error", err.Error())
}

func (l *Logger) log(level slog.Level, msg string) {
	l.base.Log(context.Background(), level, msg)
}

func (l *Logger) Debug(msg string) { l.log(slog.LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(slog.LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(slog.LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(slog.LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...))
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return contextkeys.WithRequestID(ctx, requestID)
}

func GetRequestID(ctx context.Context) string {
	return contextkeys.GetRequestID(ctx)
}

// WithLogger attaches the request logger to ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return contextkeys.WithLogger(ctx, logger)
}

// GetLogger returns the logger attached to ctx or a new info logger
func GetLogger(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextkeys.LoggerKey).(*Logger); ok {
		return logger
	}
	return NewLogger(InfoLevel, os.Stdout)
}

// FromContext returns the request logger carrying the request id, the
// caller and the trace of ctx
func FromContext(ctx context.Context) *Logger {
	logger := GetLogger(ctx)
	if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	if userID := contextkeys.GetUserID(ctx); userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return UpdateLoggerWithTraceContext(ctx, logger)
}
