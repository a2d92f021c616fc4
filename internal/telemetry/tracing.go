// Package telemetry installs the global OpenTelemetry tracer provider used by
// otelhttp and the checkout spans.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"github.com/fjod/go_cart/storefront/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider builds a provider that writes finished spans to w.
func NewTracerProvider(w io.Writer, service string, sampleRatio float64) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	res := resource.NewSchemaless(attribute.String("service.name", service))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	), nil
}

// Setup installs a global tracer provider per cfg. With the "none" exporter
// the otel no-op provider stays in place.
func Setup(w io.Writer, cfg config.TracingConfig, service string) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	if cfg.Exporter != config.TracingExporterStdout {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := NewTracerProvider(w, service, cfg.SampleRatio)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
