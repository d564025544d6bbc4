// Package logger provides the process-wide structured logger built on
// log/slog.
//
// Handlers should log through WithCtx so every line carries the request_id
// attached by the logging middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("meal request delivered", "id", id)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hostelmania/server/config"
)

var L *slog.Logger

func init() {
	L = slog.New(newStdoutHandler(os.Stdout))
	slog.SetDefault(L)
}

func newStdoutHandler(w io.Writer) slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Tee replaces the base logger with one that also writes to h. Loggers
// already handed out by WithCtx keep their old handler until the next
// request.
func Tee(h slog.Handler) {
	L = slog.New(NewMultiHandler(newStdoutHandler(os.Stdout), h))
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by InjectLogger, or the
// base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx. Called by the logging middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
