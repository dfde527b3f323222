// Package logger wraps log/slog with a request-scoped logger.
//
// The logging middleware stores a logger tagged with the request id in the
// request context; handlers and services fetch it with WithCtx:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product patched", "id", id)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Options controls Setup.
type Options struct {
	Env string
	// MongoURI enables the MongoDB sink when non-empty.
	MongoURI string
	MongoDB  string
	Output   io.Writer
}

// Setup installs the process logger. Production environments log JSON at
// INFO, everything else logs text at DEBUG. The returned func flushes and
// closes any remote sink.
func Setup(opts Options) (func(), error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	switch opts.Env {
	case "production", "prod":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	closer := func() {}
	if opts.MongoURI != "" {
		sink, err := NewMongoHandler(opts.MongoURI, opts.MongoDB, "logs")
		if err != nil {
			L = slog.New(handler)
			slog.SetDefault(L)
			return closer, err
		}
		handler = NewMultiHandler(handler, sink)
		closer = sink.Close
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return closer, nil
}

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the logging middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
