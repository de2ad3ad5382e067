package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"leadexporter/internal/config"
	"leadexporter/internal/dataprocessing"
	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/exporter"
	"leadexporter/internal/infrastructure"
	"leadexporter/pkg/contracts/domain"
)

// Options are the inputs of one export run
type Options struct {
	InputFile string `validate:"required"`
	OutputDir string `validate:"required"`
}

// Result summarizes a successful run
type Result struct {
	RunID         string
	RowsLoaded    int
	RowsExtracted int
	Partitions    int
	Files         []string
	OutputDir     string
	Duration      time.Duration
}

// Application runs the lead export pipeline:
// load → extract → group → export
type Application struct {
	loader      *dataprocessing.Loader
	transformer *dataprocessing.Transformer
	telemetry   *infrastructure.Telemetry
	logger      *slog.Logger
}

// New creates an application. A nil logger discards output and nil
// telemetry records nothing.
func New(logger *slog.Logger, telemetry *infrastructure.Telemetry) *Application {
	if logger == nil {
		logger = infrastructure.DiscardLogger()
	}
	if telemetry == nil {
		telemetry = infrastructure.NoopTelemetry()
	}

	return &Application{
		loader:      dataprocessing.NewLoader(logger),
		transformer: dataprocessing.NewTransformer(logger),
		telemetry:   telemetry,
		logger:      logger,
	}
}

// Run loads opts.InputFile, splits its leads by sponsor and writes one
// workbook per sponsor into opts.OutputDir. Any stage failure stops the
// run; workbooks written before the failure are kept.
func (a *Application) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := config.Validate(opts); err != nil {
		return nil, err
	}

	ctx = infrastructure.EnsureRunID(ctx)
	started := time.Now()
	result := &Result{
		RunID:     infrastructure.GetRunID(ctx),
		OutputDir: opts.OutputDir,
	}

	ctx, span := a.telemetry.StartStage(ctx, "run",
		attribute.String("input.file", opts.InputFile),
		attribute.String("output.dir", opts.OutputDir))

	a.logger.InfoContext(ctx, "Lead export started",
		slog.String("input_file", opts.InputFile),
		slog.String("output_dir", opts.OutputDir))

	err := a.run(ctx, opts, result)
	a.telemetry.EndStage(ctx, span, "run", started, err)
	result.Duration = time.Since(started)

	if err != nil {
		a.logger.ErrorContext(ctx, "Lead export failed",
			slog.String("kind", string(apperrors.KindOf(err))),
			slog.String("error", err.Error()),
			slog.Duration("duration", result.Duration))
		return nil, err
	}

	a.logger.InfoContext(ctx, "Lead export completed",
		slog.Int("rows", result.RowsExtracted),
		slog.Int("partitions", result.Partitions),
		slog.Int("files", len(result.Files)),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (a *Application) run(ctx context.Context, opts Options, result *Result) error {
	metrics := a.telemetry.Metrics

	loaded, err := stage(ctx, a.telemetry, "load", func(ctx context.Context) (*domain.Table, error) {
		return a.loader.Load(ctx, opts.InputFile)
	})
	if err != nil {
		return err
	}
	result.RowsLoaded = loaded.Len()
	metrics.RowsLoaded.Add(ctx, int64(loaded.Len()))

	extracted, err := stage(ctx, a.telemetry, "extract", func(ctx context.Context) (*domain.Table, error) {
		return a.transformer.Extract(ctx, loaded)
	})
	if err != nil {
		return err
	}
	result.RowsExtracted = extracted.Len()

	partition, err := stage(ctx, a.telemetry, "group", func(ctx context.Context) (*domain.Partition, error) {
		return a.transformer.Group(ctx, extracted)
	})
	if err != nil {
		return err
	}
	result.Partitions = partition.Len()
	metrics.Partitions.Add(ctx, int64(partition.Len()))

	exp := exporter.NewXLSXExporter(opts.OutputDir, a.logger)
	names, err := stage(ctx, a.telemetry, "export", func(ctx context.Context) ([]string, error) {
		return exp.Export(ctx, partition)
	})
	// files written before a failure still count
	metrics.FilesWritten.Add(ctx, int64(len(names)))
	if err != nil {
		return err
	}
	result.Files = names
	return nil
}

// stage runs fn inside a pipeline span
func stage[T any](ctx context.Context, tel *infrastructure.Telemetry, name string, fn func(context.Context) (T, error)) (T, error) {
	started := time.Now()
	ctx, span := tel.StartStage(ctx, name)
	out, err := fn(ctx)
	tel.EndStage(ctx, span, name, started, err)
	return out, err
}
