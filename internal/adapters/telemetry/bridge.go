package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/ui/style"
)

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// LogBridge implements sdktrace.SpanProcessor to turn task spans into
// progress lines and task metrics. Spans without the task marker are ignored.
type LogBridge struct {
	logger  ports.Logger
	metrics ports.Metrics
}

// NewLogBridge returns a new LogBridge. metrics may be nil.
func NewLogBridge(logger ports.Logger, metrics ports.Metrics) *LogBridge {
	return &LogBridge{logger: logger, metrics: metrics}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if !isTask(s.Attributes()) {
		return
	}
	b.logger.Info("Starting " + style.Task(s.Name()) + "...")
}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !isTask(s.Attributes()) {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	ok := s.Status().Code != codes.Error
	if ok {
		b.logger.Info("Finished " + style.Task(s.Name()) + " after " + style.Elapsed(FormatElapsed(elapsed)))
	} else {
		b.logger.Warn(style.Task(s.Name()) + " errored after " + style.Elapsed(FormatElapsed(elapsed)))
	}

	if b.metrics != nil {
		b.metrics.TaskFinished(s.Name(), ok, elapsed)
	}
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}

// FormatElapsed renders a duration as "850 μs", "120 ms" or "1.42 s".
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

func isTask(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == taskAttr {
			return kv.Value.AsBool()
		}
	}
	return false
}
