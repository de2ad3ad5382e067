package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"leadexporter/internal/app"
	"leadexporter/internal/config"
	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/files"
	"leadexporter/internal/infrastructure"
	"leadexporter/pkg/contracts"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   config.AppName + " <input_file>",
		Short: "Split a lead sheet into one workbook per sponsor",
		Long: `Read the leads captured at the event from an .xlsx workbook, keep the
lead columns and write one workbook per sponsor (the Description column)
into the output directory.

Logging, tracing and metrics are configured through LEADS_* environment variables,
e.g. LEADS_LOG_LEVEL=debug or LEADS_TELEMETRY_TRACE_EXPORTER=stdout.

Example: leadexporter leads.xlsx -o output`,
		Args:          cobra.ExactArgs(1),
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), app.Options{InputFile: args[0], OutputDir: outputDir})
		},
	}

	cmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", config.DefaultOutputDir, "Directory to write the sponsor workbooks to")

	return cmd
}

func run(ctx context.Context, opts app.Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLogFile(logger, closeLog)

	telemetry, err := infrastructure.NewTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush telemetry", slog.String("error", err.Error()))
		}
	}()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting lead export",
		slog.String("version", contracts.GetVersionString()),
		slog.String("commit", contracts.GitCommit),
		slog.String("input_file", opts.InputFile),
		slog.String("output_dir", opts.OutputDir))

	if _, err := app.New(logger, telemetry).Run(ctx, opts); err != nil {
		logger.ErrorContext(ctx, "Lead export aborted", slog.String("kind", string(apperrors.KindOf(err))))
		return err
	}

	// list what the directory holds now, including workbooks from earlier runs
	generated, err := files.NewManager(opts.OutputDir, logger).ListFiles(config.WorkbookExtension)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Generated files",
		slog.String("output_dir", opts.OutputDir),
		slog.Any("files", generated))
	for _, name := range generated {
		logger.InfoContext(ctx, "Generated file", slog.String("file", name))
	}
	return nil
}

// closeLogFile runs the logger's closer and reports a failure through the
// logger itself
func closeLogFile(logger *slog.Logger, closeLog func() error) {
	if err := closeLog(); err != nil {
		logger.Warn("Failed to close log file", slog.String("error", err.Error()))
	}
}
