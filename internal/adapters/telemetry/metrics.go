package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
)

var _ ports.Metrics = (*OTelMetrics)(nil)

// OTelMetrics is a ports.Metrics backed by OpenTelemetry instruments.
type OTelMetrics struct {
	accepted  metric.Int64Counter
	drained   metric.Int64Counter
	batchSize metric.Int64Histogram
	dropped   metric.Int64Counter
	reloads   metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewOTelMetrics creates the reload pipeline instruments on meter.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	m := &OTelMetrics{}

	var errs []error
	var err error

	m.accepted, err = meter.Int64Counter("hotswap.changes.accepted",
		metric.WithDescription("Change notifications accepted for watched definition files."))
	errs = append(errs, err)

	m.drained, err = meter.Int64Counter("hotswap.batches.drained",
		metric.WithDescription("Non-empty batches drained by the settle timer."))
	errs = append(errs, err)

	m.batchSize, err = meter.Int64Histogram("hotswap.batch.size",
		metric.WithDescription("Distinct files per drained batch."),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32))
	errs = append(errs, err)

	m.dropped, err = meter.Int64Counter("hotswap.batches.dropped",
		metric.WithDescription("Scheduled batches discarded because watching stopped."))
	errs = append(errs, err)

	m.reloads, err = meter.Int64Counter("hotswap.reloads",
		metric.WithDescription("Dispatched reloads by kind and outcome."))
	errs = append(errs, err)

	m.duration, err = meter.Float64Histogram("hotswap.reload.duration",
		metric.WithDescription("Duration of reload spans."),
		metric.WithUnit("s"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// ChangeAccepted counts a watched file newly added to the pending changes.
func (m *OTelMetrics) ChangeAccepted(ctx context.Context) {
	m.accepted.Add(ctx, 1)
}

// BatchDrained counts a drained batch and records its size.
func (m *OTelMetrics) BatchDrained(ctx context.Context, size int) {
	m.drained.Add(ctx, 1)
	m.batchSize.Record(ctx, int64(size))
}

// BatchDropped counts a discarded batch.
func (m *OTelMetrics) BatchDropped(ctx context.Context) {
	m.dropped.Add(ctx, 1)
}

// Reloaded counts a reload of kind.
func (m *OTelMetrics) Reloaded(ctx context.Context, kind domain.ReloadKind, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reloads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.String("outcome", outcome),
	))
}

// observeDuration records the duration of a finished span.
func (m *OTelMetrics) observeDuration(ctx context.Context, span string, seconds float64, failed bool) {
	m.duration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("span", span),
		attribute.Bool("failed", failed),
	))
}
