// Package tracing wires OpenTelemetry into the server and the generation client.
package tracing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dairytale/pkg/config"
	"dairytale/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

const headerRequestID = "X-Request-Id"

// Init installs the global tracer provider. When tracing is disabled the
// returned shutdown is a no-op and the global no-op provider stays in place.
func Init(ctx context.Context, cfg *config.Config, log *logger.Logger) (func(context.Context) error, error) {
	if !cfg.OtelEnabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(cfg.OtelServiceName),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	exporter, err := newExporter(ctx, cfg.OtelOTLPEndpoint)
	if err != nil {
		return nil, err
	}
	if cfg.OtelOTLPEndpoint == "" {
		log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", cfg.OtelServiceName, "endpoint", cfg.OtelOTLPEndpoint)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts := []otlptracehttp.Option{}
		if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
			opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
		} else {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

// Middleware starts a server span per request
func Middleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// RequestID tags every request with X-Request-Id, reusing the caller's value
// and falling back to the current trace ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
				reqID = spanCtx.TraceID().String()
			}
		}
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// HTTPClient propagates the trace context on outbound calls. No timeout is set;
// requests are bounded by their context only.
func HTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}
