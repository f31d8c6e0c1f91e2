// Package logger provides the structured slog logger used across Genosys.
//
// Handlers are picked by environment: JSON to stdout in production (for log
// aggregators), human-readable text in development. When MONGO_URI is set,
// records additionally fan out to an async MongoDB sink (see mongo_handler.go).
//
// Per-request correlation: the Logger middleware stores a request_id-tagged
// logger in the context; WithCtx retrieves it so every log line from a
// handler or service carries the request id.
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/genosys/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// EnableMongoSink attaches the async MongoDB handler alongside the current
// one. Called from server boot when MONGO_URI is configured; returns the
// handler so the caller can Close() it on shutdown.
func EnableMongoSink(uri, db string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return nil, err
	}
	L = slog.New(NewMultiHandler(L.Handler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx by the Logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged *slog.Logger into ctx. Called by the
// Logger middleware; application code rarely needs it.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
