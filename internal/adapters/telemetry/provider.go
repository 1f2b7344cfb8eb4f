package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

// InstrumentationName names the tracer and meter of the application.
const InstrumentationName = "go.trai.ch/hotswap"

// DefaultSlowReload is the reload duration above which the Bridge warns.
const DefaultSlowReload = 250 * time.Millisecond

// Provider owns the tracer and meter providers and the Prometheus registry they export to.
type Provider struct {
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
	mp       *sdkmetric.MeterProvider
	tracer   *OTelTracer
	metrics  *OTelMetrics
}

// NewProvider wires an OpenTelemetry meter provider to a private Prometheus registry and a
// tracer provider whose reload spans feed the duration histogram.
func NewProvider(logger ports.Logger) (*Provider, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create prometheus exporter")
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	metrics, err := NewOTelMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, zerr.Wrap(err, "failed to create metric instruments")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(metrics, logger, DefaultSlowReload)),
	)

	return &Provider{
		registry: registry,
		tp:       tp,
		mp:       mp,
		tracer:   NewOTelTracer(tp, InstrumentationName),
		metrics:  metrics,
	}, nil
}

// Tracer returns the application tracer.
func (p *Provider) Tracer() *OTelTracer {
	return p.tracer
}

// Metrics returns the reload pipeline instruments.
func (p *Provider) Metrics() *OTelMetrics {
	return p.metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}
