// Package logger configures the application's slog logger.
//
// Records logged with a context (slog.InfoContext and friends) carry the
// request id stored in that context, so every line of one request can be
// correlated.
package logger

import (
	"context"
	"io"
	"log/slog"
)

type ctxKey struct{}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// New returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging (staging): JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
func New(env string, w io.Writer) *slog.Logger {
	var h slog.Handler
	switch env {
	case "prod":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "staging":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default: // "dev" and anything unrecognised
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(contextHandler{h})
}

// contextHandler adds the request id from the record's context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
