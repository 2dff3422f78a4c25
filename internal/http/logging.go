package http

import (
	"context"
	"log/slog"
)

// handlerLogger returns the request logger tagged with the handler and
// operation, plus the event_id of the routed event when there is one.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = newResponder(fallback).logger
	}

	pairs := make([]any, 0, 6+len(attrs))
	pairs = append(pairs, "handler", handlerName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if eventID, ok := EventIDFromContext(ctx); ok && eventID != "" {
		pairs = append(pairs, "event_id", eventID)
	}
	return logger.With(append(pairs, attrs...)...)
}
