package maintenance

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/aglmct/tracker/internal/application/maintenance"

// storeMetrics counts data-quality and lifecycle events of the PPM store.
// Instruments come from the global meter provider, so they are no-ops until
// observability is initialized.
type storeMetrics struct {
	completions metric.Int64Counter
	evictions   metric.Int64Counter
}

func newStoreMetrics(meter metric.Meter, logger *slog.Logger) *storeMetrics {
	return &storeMetrics{
		completions: int64Counter(meter, logger, "tracker.ppm.completions",
			metric.WithDescription("PPM tasks marked completed"),
			metric.WithUnit("{task}")),
		evictions: int64Counter(meter, logger, "tracker.ppm.evictions",
			metric.WithDescription("PPM records dropped for having an invalid due date"),
			metric.WithUnit("{task}")),
	}
}

// int64Counter falls back to a no-op counter when the meter rejects the instrument.
func int64Counter(meter metric.Meter, logger *slog.Logger, name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, opts...)
	if err != nil {
		logger.Warn("metric instrument unavailable", slog.String("instrument", name), slog.Any("error", err))
		counter, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
	}
	return counter
}

func (m *storeMetrics) completed(ctx context.Context, recurring bool) {
	m.completions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("recurring", recurring)))
}

func (m *storeMetrics) evicted(ctx context.Context, n int, reason string) {
	if n > 0 {
		m.evictions.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}
