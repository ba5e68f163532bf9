// Package otel wires opt-in OpenTelemetry tracing for the anuncios binaries.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointEnv = "ANUNCIOS_OTEL_ENDPOINT"
	enabledEnv  = "ANUNCIOS_OTEL_ENABLED"
)

// Setup registers a global tracer provider exporting to the OTLP HTTP
// endpoint named by ANUNCIOS_OTEL_ENDPOINT. Without an endpoint, or with
// ANUNCIOS_OTEL_ENABLED set to "false", nothing is registered and the
// returned shutdown is a no-op. Callers defer shutdown to flush spans.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	endpoint := collectorEndpoint()
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noop, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return provider.Shutdown, nil
}

// collectorEndpoint resolves the exporter target, honoring the explicit
// off switch.
func collectorEndpoint() string {
	if strings.EqualFold(os.Getenv(enabledEnv), "false") {
		return ""
	}
	return strings.TrimSpace(os.Getenv(endpointEnv))
}
