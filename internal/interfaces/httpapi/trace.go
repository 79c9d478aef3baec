package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/prediction-league/internal/platform/tracing"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("prediction-league/internal/interfaces/httpapi")

// startSpan traces handler methods under the otelhttp request span. Other
// names get a non-recording span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		name = ""
	}
	return tracing.StartChild(ctx, apiTracer, name)
}
