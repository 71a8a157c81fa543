// Package logger provides the process-wide structured logger built on log/slog.
//
// Request handlers should log through WithCtx so every line carries the
// request_id injected by the Logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("discount recalculated", "order_id", order.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/bazar/config"
)

var (
	// L is the base logger. Replace it through Setup, not by assignment.
	L *slog.Logger

	closersMu sync.Mutex
	closers   []func()
)

func init() {
	L = New(os.Stdout, config.IsProduction())
	slog.SetDefault(L)
}

// New builds a JSON logger for production and a text logger otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	return slog.New(newHandler(w, production))
}

func newHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup rebuilds the base logger from configuration. When LOG_MONGO_URI is
// set, records are also shipped to MongoDB. A Mongo failure degrades to
// stdout only and is returned so the caller can report it.
func Setup() error {
	base := newHandler(os.Stdout, config.IsProduction())

	uri := config.Get("LOG_MONGO_URI", "")
	if uri == "" {
		replace(slog.New(base))
		return nil
	}

	mh, err := NewMongoHandler(uri,
		config.Get("LOG_MONGO_DB", "bazar"),
		config.Get("LOG_MONGO_COLLECTION", "logs"),
	)
	if err != nil {
		replace(slog.New(base))
		return err
	}

	closersMu.Lock()
	closers = append(closers, mh.Close)
	closersMu.Unlock()

	replace(slog.New(NewMultiHandler(base, mh)))
	return nil
}

// Close flushes and releases any sinks opened by Setup.
func Close() {
	closersMu.Lock()
	fns := closers
	closers = nil
	closersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func replace(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
