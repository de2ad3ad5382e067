package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"leadexporter/internal/config"
)

const (
	// InstrumentationName names the tracer and meter of the pipeline
	InstrumentationName = "leadexporter/pipeline"
)

// Telemetry holds the tracer and pipeline metrics of one process
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *PipelineMetrics

	shutdown func(context.Context) error
}

// PipelineMetrics are the counters recorded by the pipeline stages
type PipelineMetrics struct {
	RowsLoaded    metric.Int64Counter
	Partitions    metric.Int64Counter
	FilesWritten  metric.Int64Counter
	StageDuration metric.Float64Histogram
}

// NewTelemetry builds tracing and metrics from cfg. Exporter "none" yields
// no-op providers; "stdout" pretty-prints spans and metrics to stderr,
// flushed by Shutdown when the run ends.
func NewTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	return newTelemetry(cfg, logger, os.Stderr)
}

func newTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, out io.Writer) (*Telemetry, error) {
	logger = WithComponent(logger, "telemetry")
	res := createResource(cfg)

	tp, traceShutdown, err := newTracerProvider(cfg, res, out)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	mp, metricShutdown, err := newMeterProvider(cfg, res, out)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to initialize metrics: %w", err),
			traceShutdown(context.Background()),
		)
	}

	tel, err := NewTelemetryWithProviders(tp, mp)
	if err != nil {
		return nil, err
	}
	tel.shutdown = func(ctx context.Context) error {
		var errs []error
		if err := traceShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		if err := metricShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		return errors.Join(errs...)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return tel, nil
}

func noShutdown(context.Context) error { return nil }

// newTracerProvider returns the tracer provider for cfg.TraceExporter
func newTracerProvider(cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) (trace.TracerProvider, func(context.Context) error, error) {
	switch cfg.TraceExporter {
	case "", "none":
		return tracenoop.NewTracerProvider(), noShutdown, nil
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		return tp, tp.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
}

// newMeterProvider returns the meter provider for cfg.MetricExporter. The
// stdout reader exports on its interval and once more on shutdown.
func newMeterProvider(cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) (metric.MeterProvider, func(context.Context) error, error) {
	switch cfg.MetricExporter {
	case "", "none":
		return metricnoop.NewMeterProvider(), noShutdown, nil
	case "stdout":
		exporter, err := stdoutmetric.New(
			stdoutmetric.WithWriter(out),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		return mp, mp.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
}

// NewTelemetryWithProviders wires telemetry to the given providers
func NewTelemetryWithProviders(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	metrics, err := CreatePipelineMetrics(mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion)))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &Telemetry{
		Tracer:   tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion)),
		Metrics:  metrics,
		shutdown: func(context.Context) error { return nil },
	}, nil
}

// NoopTelemetry returns telemetry that records nothing
func NoopTelemetry() *Telemetry {
	tel, err := NewTelemetryWithProviders(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	if err != nil {
		// no-op instruments never fail to register
		panic(err)
	}
	return tel
}

// Shutdown flushes pending spans and metrics
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

// StartStage opens a span for one pipeline stage
func (t *Telemetry) StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if runID := GetRunID(ctx); runID != "" {
		attrs = append(attrs, attribute.String("run.id", runID))
	}
	return t.Tracer.Start(ctx, "pipeline."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndStage records the outcome and duration of a stage and ends its span
func (t *Telemetry) EndStage(ctx context.Context, span trace.Span, stage string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	t.Metrics.StageDuration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		),
	)
	span.End()
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"leads_rows_loaded_total",
		metric.WithDescription("Total number of lead rows loaded from input sheets"),
	)
	if err != nil {
		return nil, err
	}

	partitions, err := meter.Int64Counter(
		"leads_partitions_total",
		metric.WithDescription("Total number of sponsor partitions produced"),
	)
	if err != nil {
		return nil, err
	}

	filesWritten, err := meter.Int64Counter(
		"leads_files_written_total",
		metric.WithDescription("Total number of partition workbooks written"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"leads_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsLoaded:    rowsLoaded,
		Partitions:    partitions,
		FilesWritten:  filesWritten,
		StageDuration: stageDuration,
	}, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)
}
