package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"leadexporter/internal/config"
	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/files"
	"leadexporter/internal/infrastructure"
	"leadexporter/pkg/contracts/domain"
)

// XLSXExporter writes each partition of a lead table to its own workbook
// in one output directory
type XLSXExporter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewXLSXExporter creates an exporter writing into outputDir
func NewXLSXExporter(outputDir string, logger *slog.Logger) *XLSXExporter {
	return &XLSXExporter{
		files:  files.NewManager(outputDir, logger),
		logger: infrastructure.WithComponent(logger, "exporter"),
	}
}

// FileName returns the workbook name for a partition key: the key label
// with spaces replaced by underscores, plus the lead file suffix
func FileName(key domain.GroupKey) string {
	return strings.ReplaceAll(key.Label(), " ", "_") + config.OutputFileSuffix
}

// Export writes one workbook per partition key and returns the file names
// in key order. The output directory is created first, even when the
// partition is empty. The first failure stops the export with a
// *errors.ExportError; files already written are kept.
func (e *XLSXExporter) Export(ctx context.Context, partition *domain.Partition) ([]string, error) {
	if err := e.files.EnsureDirectory(); err != nil {
		return nil, apperrors.NewExportError(e.files.BaseDir(), err)
	}

	keys := partition.Keys()
	names, err := fileNames(keys)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(keys))
	for i, key := range keys {
		table, _ := partition.Get(key)
		path := e.files.Path(names[i])
		if e.files.FileExists(names[i]) {
			e.logger.WarnContext(ctx, "Replacing existing partition file",
				slog.String("sponsor", key.Label()),
				slog.String("file", names[i]))
		}

		if err := writeWorkbook(path, table); err != nil {
			e.logger.ErrorContext(ctx, "Failed to write partition",
				slog.String("sponsor", key.Label()),
				slog.String("file", path),
				slog.String("error", err.Error()))
			return written, apperrors.NewExportError(path, err)
		}
		written = append(written, names[i])

		e.logger.InfoContext(ctx, "Partition exported",
			slog.String("sponsor", key.Label()),
			slog.String("file", names[i]),
			slog.Int("rows", table.Len()))
	}

	e.logger.InfoContext(ctx, "Export completed",
		slog.String("output_dir", e.files.BaseDir()),
		slog.Int("files", len(written)))
	return written, nil
}

// fileNames maps every key to its file name, rejecting names that would
// leave the output directory or that two keys would share
func fileNames(keys []domain.GroupKey) ([]string, error) {
	names := make([]string, len(keys))
	owners := make(map[string]domain.GroupKey, len(keys))
	for i, key := range keys {
		name := FileName(key)
		if strings.ContainsAny(name, `/\`) {
			return nil, apperrors.NewExportError(name,
				fmt.Errorf("sponsor %q contains a path separator", key.Label()))
		}
		if prev, dup := owners[name]; dup {
			return nil, apperrors.NewExportError(name,
				fmt.Errorf("sponsors %q and %q map to the same file", prev.Label(), key.Label()))
		}
		owners[name] = key
		names[i] = name
	}
	return names, nil
}

// writeWorkbook streams table into a fresh single-sheet workbook at path,
// replacing any existing file
func writeWorkbook(path string, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet != config.OutputSheetName {
		if err := f.SetSheetName(sheet, config.OutputSheetName); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(config.OutputSheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	columns := table.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range table.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v.Interface()
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.SaveAs(path)
}
