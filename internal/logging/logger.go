// Package logging provides the printf-style Logger used across simreport
// and its zerolog-backed implementation.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a minimal logging interface. Implementations should be fast;
// the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// ZeroLogger adapts a zerolog.Logger to Logger.
type ZeroLogger struct {
	zl zerolog.Logger
}

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error"). pretty selects zerolog's human-readable console output.
func New(w io.Writer, level string, pretty bool) (*ZeroLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return &ZeroLogger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(zl zerolog.Logger) *ZeroLogger { return &ZeroLogger{zl: zl} }

// ParseLevel converts a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// With returns a child logger that adds a string field to every entry.
func (l *ZeroLogger) With(key, value string) *ZeroLogger {
	return &ZeroLogger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *ZeroLogger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l *ZeroLogger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l *ZeroLogger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l *ZeroLogger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }
