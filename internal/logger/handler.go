// Package logger decorates slog output with request-scoped attributes.
package logger

import (
	"context"
	"log/slog"

	"flowdex/backend/internal/middleware"
)

// ContextHandler stamps every record with the correlation ID carried by the
// context, so handler and repository logs for one request can be joined
// without threading the ID through call sites.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(middleware.CorrelationKey).(string); ok && id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}
