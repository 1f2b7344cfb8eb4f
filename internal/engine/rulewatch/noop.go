package rulewatch

import (
	"context"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
)

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End() {}
func (noopSpan) RecordError(error) {}
func (noopSpan) SetAttribute(string, any) {}

type noopMetrics struct{}

func (noopMetrics) ChangeAccepted(context.Context) {}
func (noopMetrics) BatchDrained(context.Context, int) {}
func (noopMetrics) BatchDropped(context.Context) {}
func (noopMetrics) Reloaded(context.Context, domain.ReloadKind, error) {}
