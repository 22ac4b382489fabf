// Package telemetry installs the relay's tracing and instruments its inbound
// and outbound HTTP.
package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName names the relay in exported spans.
const ServiceName = "jobtracker-relay"

// Setup installs a tracer provider and the W3C trace context propagator as
// process globals. Spans are exported over OTLP/HTTP when endpoint is set and
// only recorded locally otherwise. The returned func flushes and stops the
// provider.
func Setup(ctx context.Context, endpoint string, opts ...sdktrace.TracerProviderOption) (func(context.Context) error, error) {
	res := resource.NewSchemaless(semconv.ServiceName(ServiceName))
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)
	if endpoint != "" {
		exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Handler opens a server span per inbound request, continuing any trace the
// caller propagated.
func Handler(h http.Handler) http.Handler {
	return otelhttp.NewHandler(h, ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "Server: " + r.Method + " " + r.URL.Path
		}),
	)
}

// Transport opens a client span per outbound request and injects the
// traceparent header. A nil base means http.DefaultTransport.
func Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "Client: " + r.Method + " " + r.URL.Path
		}),
	)
}

// Client is an http.Client over Transport.
func Client() *http.Client {
	return &http.Client{Transport: Transport(nil)}
}
