// Package logger holds the process-wide zerolog logger and its request-scoped children.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.Nop()

// InitStructured configures the global logger.
// Local and development environments get console output; everything else gets JSON lines.
func InitStructured(env, level string) {
	var w io.Writer = os.Stdout
	switch env {
	case "local", "development", "dev":
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog = zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "prm-backend").
		Str("env", env).
		Logger()
}

// SetOutput redirects the global logger, used by tests to capture entries
func SetOutput(w io.Writer) {
	zlog = zerolog.New(w).With().Timestamp().Logger()
}

// GetLogger returns the global logger. It discards everything until InitStructured runs.
func GetLogger() *zerolog.Logger {
	return &zlog
}

// NewContext returns ctx carrying a child of the global logger with the given request id
func NewContext(ctx context.Context, requestID string) context.Context {
	l := zlog.With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// AddUserID tags the logger carried by ctx with the authenticated user
func AddUserID(ctx context.Context, userID uint64) {
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Uint64("user_id", userID)
	})
}

// Ctx returns the request logger carried by ctx, falling back to the global logger
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &zlog
}
