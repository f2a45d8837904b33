// Package logger provides the service-wide structured logger built on log/slog.
//
// Handlers and services should log through WithCtx so every line carries the
// request_id of the request being served:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "buyer", order.BuyerEmail)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/resellbd/resell-api/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler(os.Stdout))
	slog.SetDefault(L)
}

// baseHandler picks JSON output for production and text for everything else.
func baseHandler(w io.Writer) slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Tee adds extra sinks next to stdout, e.g. the Mongo log handler.
// The returned logger also becomes the slog default.
func Tee(extra ...slog.Handler) *slog.Logger {
	hs := append([]slog.Handler{baseHandler(os.Stdout)}, extra...)
	L = slog.New(NewMultiHandler(hs...))
	slog.SetDefault(L)
	return L
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by InjectLogger, or the
// base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
