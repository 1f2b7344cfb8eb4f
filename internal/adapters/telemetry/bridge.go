package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/hotswap/internal/core/ports"
)

// reloadSpanPrefixes select the spans observed by the Bridge.
var reloadSpanPrefixes = []string{"rulewatch.", "ruleset."}

// Bridge is an sdktrace.SpanProcessor that turns finished reload spans into duration
// samples and warns about reloads slower than a threshold.
type Bridge struct {
	metrics *OTelMetrics
	logger  ports.Logger
	slow    time.Duration
}

// NewBridge returns a Bridge. A zero slow threshold disables the warning.
func NewBridge(metrics *OTelMetrics, logger ports.Logger, slow time.Duration) *Bridge {
	return &Bridge{metrics: metrics, logger: logger, slow: slow}
}

// OnStart does nothing.
func (b *Bridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() || !observed(s.Name()) {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	failed := s.Status().Code == codes.Error

	if b.metrics != nil {
		b.metrics.observeDuration(context.Background(), s.Name(), elapsed.Seconds(), failed)
	}
	if b.logger != nil && b.slow > 0 && elapsed > b.slow {
		b.logger.Warn(fmt.Sprintf("%s took %s (threshold %s)", s.Name(), elapsed.Round(time.Millisecond), b.slow))
	}
}

func observed(name string) bool {
	for _, prefix := range reloadSpanPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error {
	return nil
}
