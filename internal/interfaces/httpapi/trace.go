package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const handlerSpanPrefix = "httpapi.Handler."

var tracer = otel.Tracer("github.com/fplmate/fpl-live/internal/interfaces/httpapi")

// startSpan opens a child span for handler-level work. Helper and middleware
// spans are skipped, as are requests without a parent span (filtered routes
// like /healthz), so internal helpers never become root spans.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, noop.Span{}
	}
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name)
}
