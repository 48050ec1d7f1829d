package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the shared tracer for all audit components.
var Tracer trace.Tracer = otel.Tracer("refaudit")

// InitTracing wires an OTLP gRPC exporter when an endpoint is configured.
// Returns a shutdown func; a nil endpoint leaves the no-op provider in place.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("refaudit")

	slog.Info("tracing enabled", "endpoint", endpoint)
	return provider.Shutdown, nil
}
