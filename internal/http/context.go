package http

import (
	"context"
	"log/slog"

	"github.com/example/booking-screen/internal/logging"
)

type contextKey string

const screenIDContextKey contextKey = "screen_id"

// ContextWithLogger returns a derived context carrying the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithScreenID injects the screen identifier resolved from the request path.
func ContextWithScreenID(ctx context.Context, screenID string) context.Context {
	return context.WithValue(ctx, screenIDContextKey, screenID)
}

// ScreenIDFromContext extracts a screen identifier previously associated with the context.
func ScreenIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(screenIDContextKey).(string)
	return id, ok
}
