package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/prediction-league/internal/platform/tracing"
)

var usecaseTracer = otel.Tracer("prediction-league/internal/usecase")

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracing.StartChild(ctx, usecaseTracer, name)
}
