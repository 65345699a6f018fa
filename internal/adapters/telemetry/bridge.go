package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/strata/internal/core/ports"
)

// SlowSpanThreshold is the duration above which a finished span is logged at
// warn level.
const SlowSpanThreshold = 2 * time.Second

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor and reports finished spans to a
// logger. Failed and slow spans are warnings, the rest are debug records.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	args := []any{"span", s.Name(), "duration", elapsed.Round(time.Microsecond).String()}

	switch {
	case s.Status().Code == codes.Error:
		b.logger.Warn("operation failed", append(args, "error", s.Status().Description)...)
	case elapsed > SlowSpanThreshold:
		b.logger.Warn("slow operation", args...)
	default:
		b.logger.Debug("operation finished", args...)
	}
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
