// Package observability wires slog and OpenTelemetry for the tracker binaries.
//
// With telemetry disabled every provider is a local no-op and logs are JSON
// lines on the configured writer. With telemetry enabled traces, metrics and
// logs are exported over OTLP/HTTP to OTEL_EXPORTER_OTLP_ENDPOINT.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceVersion is reported as service.version on every signal.
var ServiceVersion = "dev"

const exportTimeout = 10 * time.Second

// exporter holds what the three OTLP/HTTP exporters share.
// A nil *exporter means telemetry is disabled.
type exporter struct {
	res     *resource.Resource
	headers map[string]string
}

func newExporter(ctx context.Context, serviceName string) (*exporter, error) {
	res, err := newResource(ctx, serviceName, ServiceVersion)
	if err != nil {
		return nil, err
	}
	return &exporter{res: res, headers: parseOTLPHeaders()}, nil
}

// parseOTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS and URL-decodes values.
// Grafana Cloud hands out headers URL-encoded (Authorization=Basic%20token)
// and the Go SDK does not always decode them.
func parseOTLPHeaders() map[string]string {
	raw := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	if raw == "" {
		return nil
	}

	headers := make(map[string]string)
	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		headers[strings.TrimSpace(key)] = value
	}
	return headers
}

// newResource merges the SDK defaults with the service attributes and
// whatever OTEL_RESOURCE_ATTRIBUTES / OTEL_SERVICE_NAME add.
// Partial resources and schema URL conflicts are usable and not reported.
func newResource(ctx context.Context, serviceName, serviceVersion string) (*resource.Resource, error) {
	serviceResource, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
		resource.WithSchemaURL(semconv.SchemaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service resource: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource)
	if err != nil {
		if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return res, nil
}

// newTracerProvider registers the global tracer provider and the W3C propagators.
func newTracerProvider(e *exporter) (*sdktrace.TracerProvider, error) {
	if e == nil {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithTimeout(exportTimeout)}
	if e.headers != nil {
		opts = append(opts, otlptracehttp.WithHeaders(e.headers))
	}
	// Exporters get a background context so that a cancelled command
	// context cannot stop the final flush.
	traceExporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(e.res),
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// newMeterProvider registers the global meter provider. The periodic reader
// also collects once on Shutdown, so short CLI runs still report.
func newMeterProvider(e *exporter) (*sdkmetric.MeterProvider, error) {
	if e == nil {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithTimeout(exportTimeout)}
	if e.headers != nil {
		opts = append(opts, otlpmetrichttp.WithHeaders(e.headers))
	}
	metricExporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(e.res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(15*time.Second),
		)),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// newLogger returns the process logger. Disabled: JSON lines on w at level.
// Enabled: an otelslog bridge exporting through a batch processor.
func newLogger(e *exporter, serviceName string, w io.Writer, level slog.Level) (*log.LoggerProvider, *slog.Logger, error) {
	if e == nil {
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		return log.NewLoggerProvider(), slog.New(handler), nil
	}

	opts := []otlploghttp.Option{otlploghttp.WithTimeout(exportTimeout)}
	if e.headers != nil {
		opts = append(opts, otlploghttp.WithHeaders(e.headers))
	}
	logExporter, err := otlploghttp.New(context.Background(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	lp := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter, log.WithExportTimeout(5*time.Second))),
		log.WithResource(e.res),
	)
	return lp, otelslog.NewLogger(serviceName, otelslog.WithLoggerProvider(lp)), nil
}

// Providers bundles the three OTel providers so callers can flush them together.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
	Logs   *log.LoggerProvider
	Logger *slog.Logger
}

// Options configures Setup.
type Options struct {
	ServiceName string
	// Enabled turns on OTLP export. Endpoint, headers and extra resource
	// attributes come from the standard OTEL_* variables.
	Enabled   bool
	LogOutput io.Writer // defaults to stderr
	LogLevel  slog.Level
}

// Setup initializes tracing, metrics and logging in one call.
// On error, any provider already created is shut down before returning.
func Setup(ctx context.Context, opts Options) (*Providers, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	var e *exporter
	if opts.Enabled {
		var err error
		if e, err = newExporter(ctx, opts.ServiceName); err != nil {
			return nil, err
		}
	}

	tp, err := newTracerProvider(e)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracer provider: %w", err)
	}

	mp, err := newMeterProvider(e)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to init meter provider: %w", err)
	}

	lp, logger, err := newLogger(e, opts.ServiceName, opts.LogOutput, opts.LogLevel)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return &Providers{Tracer: tp, Meter: mp, Logs: lp, Logger: logger}, nil
}

// Shutdown flushes and stops every provider, joining their errors.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logs.Shutdown(ctx),
	)
}
