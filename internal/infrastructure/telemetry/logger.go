package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

// Context keys for log enrichment
type contextKey string

const (
	httpRouteKey contextKey = "http.route"
	slotKey      contextKey = "slot"
)

// WithHTTPRoute adds the HTTP route to the context
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, httpRouteKey, route)
}

// HTTPRouteFromContext extracts the HTTP route from context
func HTTPRouteFromContext(ctx context.Context) string {
	if route, ok := ctx.Value(httpRouteKey).(string); ok {
		return route
	}
	return ""
}

// WithSlot tags the context with the showcase slot being worked on
func WithSlot(ctx context.Context, slot int) context.Context {
	return context.WithValue(ctx, slotKey, slot)
}

// SlotFromContext extracts the slot index from context
func SlotFromContext(ctx context.Context) (int, bool) {
	slot, ok := ctx.Value(slotKey).(int)
	return slot, ok
}

// traceContextHandler is a slog handler that injects trace and request context
type traceContextHandler struct {
	handler slog.Handler
}

func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds trace_id, span_id, http.route and slot to log records from the context
func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}

	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}

	if slot, ok := SlotFromContext(ctx); ok {
		r.AddAttrs(slog.Int("slot", slot))
	}

	return h.handler.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{
		handler: h.handler.WithAttrs(attrs),
	}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{
		handler: h.handler.WithGroup(name),
	}
}

// NewLogger builds the structured JSON logger used across the service
func NewLogger(w io.Writer, cfg *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(&traceContextHandler{handler: jsonHandler}).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}

func initLogger(cfg *config.OTLPConfig) *slog.Logger {
	return NewLogger(os.Stdout, cfg)
}
