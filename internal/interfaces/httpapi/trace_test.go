package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestStartSpan_OnlyHandlersUnderParent(t *testing.T) {
	parentCtx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	}))

	tests := []struct {
		name      string
		ctx       context.Context
		span      string
		wantChild bool
	}{
		{name: "handler under request", ctx: parentCtx, span: "httpapi.Handler.GetDashboard", wantChild: true},
		{name: "middleware under request", ctx: parentCtx, span: "httpapi.RequestLogging"},
		{name: "handler without request span", ctx: context.Background(), span: "httpapi.Handler.Healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, span := startSpan(tt.ctx, tt.span)
			defer span.End()
			if got := ctx != tt.ctx; got != tt.wantChild {
				t.Fatalf("child context got=%v want=%v", got, tt.wantChild)
			}
		})
	}
}
