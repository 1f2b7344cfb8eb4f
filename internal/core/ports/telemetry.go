package ports

import (
	"context"

	"go.trai.ch/hotswap/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Attributes map[string]any
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithAttribute sets an attribute on the span when it starts.
func WithAttribute(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]any)
		}
		c.Attributes[key] = value
	}
}

// Metrics records counters for the reload pipeline.
type Metrics interface {
	// ChangeAccepted counts a watched file newly added to the pending changes.
	ChangeAccepted(ctx context.Context)
	// BatchDrained counts a non-empty batch drained by the settle timer.
	BatchDrained(ctx context.Context, size int)
	// BatchDropped counts a scheduled batch discarded because the watcher was stopped.
	BatchDropped(ctx context.Context)
	// Reloaded counts a dispatched reload and its outcome.
	Reloaded(ctx context.Context, kind domain.ReloadKind, err error)
}
