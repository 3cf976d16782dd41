package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// New creates a console logger on stderr at the given level ("debug",
// "info", "warn", "error"; anything else means info).
func New(level string) zerolog.Logger {
	return NewConsole(os.Stderr, level)
}

// NewConsole creates a human-readable logger on w.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// NewWithWriter creates a JSON logger with a custom writer
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a disabled logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// CalcLogger adapts a zerolog.Logger to the accrual engine's printf-style
// Logger interface.
type CalcLogger struct {
	Log zerolog.Logger
}

// NewCalcLogger tags engine output with component=accrual.
func NewCalcLogger(l zerolog.Logger) CalcLogger {
	return CalcLogger{Log: l.With().Str("component", "accrual").Logger()}
}

func (c CalcLogger) Debugf(format string, args ...any) { c.Log.Debug().Msgf(format, args...) }
func (c CalcLogger) Infof(format string, args ...any)  { c.Log.Info().Msgf(format, args...) }
func (c CalcLogger) Warnf(format string, args ...any)  { c.Log.Warn().Msgf(format, args...) }
func (c CalcLogger) Errorf(format string, args ...any) { c.Log.Error().Msgf(format, args...) }
