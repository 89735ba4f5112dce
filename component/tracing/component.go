package tracing

import (
	"context"
	"net/http"

	"github.com/nuts-foundation/hdsi-querytool/component"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var _ component.Lifecycle = (*Component)(nil)

const defaultServiceName = "hdsi-querytool"

type Config struct {
	// OTLPEndpoint is the host:port of the OTLP/HTTP collector. Tracing is disabled when empty.
	OTLPEndpoint   string `koanf:"otlpendpoint"`
	Insecure       bool   `koanf:"insecure"`
	ServiceName    string `koanf:"servicename"`
	ServiceVersion string `koanf:"-"`
}

func DefaultConfig() Config {
	return Config{
		Insecure:    true,
		ServiceName: defaultServiceName,
	}
}

type Component struct {
	config         Config
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg Config) *Component {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	return &Component{config: cfg}
}

// Enabled reports whether spans are exported.
func (c *Component) Enabled() bool {
	return c.config.OTLPEndpoint != ""
}

func (c *Component) Start() error {
	if !c.Enabled() {
		log.Info().Msg("No OTLP endpoint configured, tracing disabled")
		return nil
	}
	ctx := context.Background()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.config.ServiceName),
			semconv.ServiceVersionKey.String(c.config.ServiceVersion),
		),
	)
	if err != nil {
		return err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.config.OTLPEndpoint),
	}
	if c.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return err
	}
	c.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(c.tracerProvider)

	log.Info().
		Str("endpoint", c.config.OTLPEndpoint).
		Str("service", c.config.ServiceName).
		Msg("OpenTelemetry tracing initialized")
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.tracerProvider == nil {
		return nil
	}
	log.Info().Msg("Shutting down OpenTelemetry tracing")
	// Shutting down the provider also flushes and shuts down the exporter.
	err := c.tracerProvider.Shutdown(ctx)
	c.tracerProvider = nil
	return err
}

func (c *Component) RegisterHttpHandlers(_ *http.ServeMux, _ *http.ServeMux) {
	// Tracing component doesn't expose HTTP endpoints
}

// WrapTransport wraps an http.RoundTripper with OpenTelemetry instrumentation.
// If transport is nil, http.DefaultTransport is used.
func WrapTransport(transport http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(transport)
}

// WrapHandler starts a server span for every request handled by the given handler.
func WrapHandler(handler http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(handler, operation)
}
