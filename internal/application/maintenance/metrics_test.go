package maintenance

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// rejectingMeter refuses every Int64Counter.
type rejectingMeter struct {
	noop.Meter
}

func (rejectingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errors.New("invalid instrument name")
}

func TestNewStoreMetrics_FallsBackWhenMeterRejects(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := newStoreMetrics(rejectingMeter{}, logger)
	require.NotNil(t, m.completions)
	require.NotNil(t, m.evictions)

	assert.NotPanics(t, func() {
		m.completed(context.Background(), true)
		m.evicted(context.Background(), 2, "load")
	})

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "metric instrument unavailable"))
	assert.Contains(t, out, "instrument=tracker.ppm.completions")
	assert.Contains(t, out, "instrument=tracker.ppm.evictions")
}

func TestNewStoreMetrics_UsesMeter(t *testing.T) {
	var buf bytes.Buffer
	m := newStoreMetrics(noop.NewMeterProvider().Meter(meterName), slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotPanics(t, func() {
		m.completed(context.Background(), false)
		m.evicted(context.Background(), 0, "clean")
	})
	assert.Empty(t, buf.String())
}
