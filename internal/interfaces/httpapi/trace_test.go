package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestStartSpan_FiltersHelperAndRootSpans(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0xde, 0xad, 0xbe, 0xef, 0x01},
		SpanID:  trace.SpanID{0xca, 0xfe, 0x02},
	})
	withParent := trace.ContextWithSpanContext(context.Background(), sc)

	tests := []struct {
		name      string
		ctx       context.Context
		span      string
		wantChild bool
	}{
		{name: "handler span under a request span", ctx: withParent, span: "httpapi.Handler.GetSeasonTable", wantChild: true},
		{name: "helper span is skipped", ctx: withParent, span: "httpapi.writeJSON", wantChild: false},
		{name: "middleware span is skipped", ctx: withParent, span: "httpapi.RequestLogging", wantChild: false},
		{name: "handler span without parent is skipped", ctx: context.Background(), span: "httpapi.Handler.GetSeasonTable", wantChild: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, span := startSpan(tt.ctx, tt.span)
			gotChild := span.SpanContext().IsValid()
			if gotChild != tt.wantChild {
				t.Fatalf("startSpan(%q) child=%v want=%v", tt.span, gotChild, tt.wantChild)
			}
			if !tt.wantChild && ctx != tt.ctx {
				t.Fatalf("skipped span should leave the context untouched")
			}
			span.End()
		})
	}
}
