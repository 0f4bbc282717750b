// Package logger is the pluggable logging hook used across pdfdoc.
//
// Nothing is logged until a LogFunc is installed with SetLogger. Recoverable
// anomalies are logged at warn level and are also returned to the caller as
// warnings, so installing a logger is optional.
//
// The installed LogFunc is process-wide: the last SetLogger call wins for
// every goroutine. Swapping it is safe while other goroutines are logging.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// LogFunc is a single logger function that handles all levels
type LogFunc func(level LogLevel, msg string, keyvals ...interface{})

func discard(LogLevel, string, ...interface{}) {}

var logFunc atomic.Pointer[LogFunc]

func init() {
	SetLogger(nil)
}

// SetLogger sets the process-wide logger function. nil restores the no-op
// logger.
func SetLogger(f LogFunc) {
	if f == nil {
		f = discard
	}
	logFunc.Store(&f)
}

func current() LogFunc {
	return *logFunc.Load()
}

// Debug logs a message at debug level
func Debug(msg string, keyvals ...interface{}) {
	current()(DebugLevel, msg, keyvals...)
}

// Warn logs a message at warn level
func Warn(msg string, keyvals ...interface{}) {
	current()(WarnLevel, msg, keyvals...)
}

// Error logs a message at error level
func Error(msg string, keyvals ...interface{}) {
	current()(ErrorLevel, msg, keyvals...)
}

// SlogFunc adapts a *slog.Logger to a LogFunc.
func SlogFunc(l *slog.Logger) LogFunc {
	return func(level LogLevel, msg string, keyvals ...interface{}) {
		l.Log(context.Background(), slogLevel(level), msg, keyvals...)
	}
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	}
	return slog.LevelInfo
}
