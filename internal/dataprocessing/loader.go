package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/infrastructure"
	"leadexporter/internal/validation"
	"leadexporter/pkg/contracts/domain"
)

// unnamedColumnPrefix names header cells left empty in the sheet
const unnamedColumnPrefix = "Unnamed: "

// Loader reads lead sheets from .xlsx workbooks
type Loader struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		validator: validation.NewFileValidator(logger),
		logger:    infrastructure.WithComponent(logger, "loader"),
	}
}

// Load reads the first sheet of the workbook at path. The first row is the
// header, every later non-blank row is a data row. Any failure is returned
// as a *errors.LoadError and no table is produced.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}

	if err := l.validator.ValidateWorkbook(path); err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("workbook has no sheets"))
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("sheet %q has no header row", sheet))
	}

	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	columns := headerColumns(header, width)

	records := make([]domain.Row, 0, len(rows)-1)
	skipped := 0
	for i, raw := range rows[1:] {
		if isBlankRow(raw) {
			skipped++
			continue
		}

		// header is sheet row 1, so data row i sits at sheet row i+2
		record, err := l.readRow(f, sheet, i+2, raw, columns)
		if err != nil {
			return nil, apperrors.NewLoadError(path, err)
		}
		records = append(records, record)
	}

	table, err := domain.NewTable(columns, records)
	if err != nil {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("invalid header in sheet %q: %w", sheet, err))
	}

	l.logger.InfoContext(ctx, "Lead sheet loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("columns", len(columns)),
		slog.Int("rows", table.Len()),
		slog.Int("blank_rows_skipped", skipped))

	return table, nil
}

// readRow converts one sheet row into a domain row, typing each cell
func (l *Loader) readRow(f *excelize.File, sheet string, sheetRow int, raw []string, columns []string) (domain.Row, error) {
	row := make(domain.Row, len(columns))
	for j, column := range columns {
		if j >= len(raw) || raw[j] == "" {
			row[column] = domain.Missing()
			continue
		}

		cell, err := excelize.CoordinatesToCellName(j+1, sheetRow)
		if err != nil {
			return nil, err
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("failed to read cell %s: %w", cell, err)
		}
		row[column] = cellValue(cellType, raw[j])
	}
	return row, nil
}

// cellValue types a non-empty raw cell value
func cellValue(cellType excelize.CellType, raw string) domain.Value {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return domain.StringValue(raw)
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return domain.StringValue("TRUE")
		}
		return domain.StringValue("FALSE")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// cells written without an explicit type are numbers when they parse
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NumberValue(n)
		}
		return domain.StringValue(raw)
	default:
		return domain.StringValue(raw)
	}
}

// headerColumns names width columns from the header row. Empty header
// cells, and cells past the end of the header, become "Unnamed: <index>".
// Repeated names are made unique with a ".<n>" suffix; the first
// occurrence keeps its name.
func headerColumns(header []string, width int) []string {
	columns := make([]string, width)
	counts := make(map[string]int, width)
	for i := range columns {
		name := unnamedColumnPrefix + strconv.Itoa(i)
		if i < len(header) && header[i] != "" {
			name = header[i]
		}

		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = name + "." + strconv.Itoa(n)
			n = counts[name]
		}
		counts[name] = n + 1
		columns[i] = name
	}
	return columns
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
