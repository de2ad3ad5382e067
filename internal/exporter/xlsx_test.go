package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leadexporter/internal/config"
	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/shared/testutil"
	"leadexporter/pkg/contracts/domain"
)

var exportColumns = []string{"Full name", "Email", "Years of Experience"}

func leadRows(names ...string) []domain.Row {
	rows := make([]domain.Row, len(names))
	for i, n := range names {
		rows[i] = domain.Row{
			"Full name":           domain.StringValue(n),
			"Email":               domain.StringValue(n + "@example.com"),
			"Years of Experience": domain.NumberValue(float64(i) + 0.5),
		}
	}
	return rows
}

func partitionOf(t *testing.T, tables map[domain.GroupKey][]domain.Row, order ...domain.GroupKey) *domain.Partition {
	t.Helper()
	p := domain.NewPartition()
	for _, key := range order {
		table, err := domain.NewTable(exportColumns, tables[key])
		require.NoError(t, err)
		p.Set(key, table)
	}
	return p
}

func TestFileName(t *testing.T) {
	tests := []struct {
		key  domain.GroupKey
		want string
	}{
		{key: domain.Key("Acme"), want: "Acme_devbcn-25-leads.xlsx"},
		{key: domain.Key("Acme Corp"), want: "Acme_Corp_devbcn-25-leads.xlsx"},
		{key: domain.Key(" two  spaces "), want: "_two__spaces__devbcn-25-leads.xlsx"},
		{key: domain.Key("3"), want: "3_devbcn-25-leads.xlsx"},
		{key: domain.UnspecifiedKey(), want: "unspecified_devbcn-25-leads.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.key))
		})
	}
}

func TestExport(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	dir := filepath.Join(t.TempDir(), "out")

	acme, globex := domain.Key("Acme Corp"), domain.Key("Globex")
	partition := partitionOf(t, map[domain.GroupKey][]domain.Row{
		acme:   leadRows("A", "C"),
		globex: leadRows("B"),
	}, acme, globex)

	exp := NewXLSXExporter(dir, logger)
	names, err := exp.Export(context.Background(), partition)
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme_Corp_devbcn-25-leads.xlsx", "Globex_devbcn-25-leads.xlsx"}, names)
	assert.False(t, logs.ContainsMessage("Replacing existing partition file"))

	rows := testutil.ReadWorkbook(t, filepath.Join(dir, names[0]))
	assert.Equal(t, [][]string{
		{"Full name", "Email", "Years of Experience"},
		{"A", "A@example.com", "0.5"},
		{"C", "C@example.com", "1.5"},
	}, rows)

	rows = testutil.ReadWorkbook(t, filepath.Join(dir, names[1]))
	assert.Equal(t, [][]string{
		{"Full name", "Email", "Years of Experience"},
		{"B", "B@example.com", "0.5"},
	}, rows)

	testutil.AssertNoErrors(t, logs)
	assert.True(t, logs.ContainsAttr("file", "Globex_devbcn-25-leads.xlsx"))
	assert.True(t, logs.ContainsAttr("component", "exporter"))
}

func TestExport_CellTypes(t *testing.T) {
	dir := t.TempDir()
	key := domain.Key("Acme")

	p := domain.NewPartition()
	p.Set(key, domain.MustNewTable(exportColumns, []domain.Row{{
		"Full name":           domain.StringValue("007"),
		"Years of Experience": domain.NumberValue(5),
	}}))

	names, err := NewXLSXExporter(dir, nil).Export(context.Background(), p)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, names[0]))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{config.OutputSheetName}, f.GetSheetList())

	name, err := f.GetCellValue(config.OutputSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "007", name)
	nameType, err := f.GetCellType(config.OutputSheetName, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, nameType)

	email, err := f.GetCellValue(config.OutputSheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, email, "missing values are empty cells")

	years, err := f.GetCellValue(config.OutputSheetName, "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "5", years)
	yearsType, err := f.GetCellType(config.OutputSheetName, "C2")
	require.NoError(t, err)
	assert.Contains(t, []excelize.CellType{excelize.CellTypeNumber, excelize.CellTypeUnset}, yearsType)
}

func TestExport_UnspecifiedPartition(t *testing.T) {
	dir := t.TempDir()
	p := partitionOf(t, map[domain.GroupKey][]domain.Row{
		domain.UnspecifiedKey(): leadRows("X"),
	}, domain.UnspecifiedKey())

	names, err := NewXLSXExporter(dir, nil).Export(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"unspecified_devbcn-25-leads.xlsx"}, names)
	assert.FileExists(t, filepath.Join(dir, names[0]))
}

func TestExport_EmptyPartitionCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	names, err := NewXLSXExporter(dir, nil).Export(context.Background(), domain.NewPartition())
	require.NoError(t, err)
	assert.Empty(t, names)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_OverwritesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	key := domain.Key("Acme")
	stale := filepath.Join(dir, FileName(key))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	p := partitionOf(t, map[domain.GroupKey][]domain.Row{key: leadRows("A")}, key)
	logger, logs := testutil.NewTestLogger(t)
	exp := NewXLSXExporter(dir, logger)

	_, err := exp.Export(context.Background(), p)
	require.NoError(t, err)
	first := testutil.ReadWorkbook(t, stale)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Replacing existing partition file")
	assert.True(t, logs.ContainsAttr("file", FileName(key)))

	_, err = exp.Export(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, testutil.ReadWorkbook(t, stale))
	assert.Len(t, first, 2)
}

func TestExport_FileNameConflicts(t *testing.T) {
	tests := []struct {
		name string
		keys []domain.GroupKey
	}{
		{name: "space and underscore", keys: []domain.GroupKey{domain.Key("A B"), domain.Key("A_B")}},
		{name: "missing and literal label", keys: []domain.GroupKey{domain.UnspecifiedKey(), domain.Key("unspecified")}},
		{name: "path separator", keys: []domain.GroupKey{domain.Key("a/b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			rows := make(map[domain.GroupKey][]domain.Row)
			for _, k := range tt.keys {
				rows[k] = leadRows("A")
			}

			_, err := NewXLSXExporter(dir, nil).Export(context.Background(), partitionOf(t, rows, tt.keys...))

			var exportErr *apperrors.ExportError
			require.ErrorAs(t, err, &exportErr)
			assert.Equal(t, apperrors.ErrTypeExport, apperrors.KindOf(err))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing is written when names conflict")
		})
	}
}

func TestExport_WriteFailures(t *testing.T) {
	t.Run("output dir is a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		key := domain.Key("Acme")
		_, err := NewXLSXExporter(blocker, nil).Export(context.Background(),
			partitionOf(t, map[domain.GroupKey][]domain.Row{key: leadRows("A")}, key))

		var exportErr *apperrors.ExportError
		require.ErrorAs(t, err, &exportErr)
		assert.Equal(t, blocker, exportErr.Path)
	})

	t.Run("fail fast keeps earlier files", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		dir := t.TempDir()
		first, second, third := domain.Key("First"), domain.Key("Second"), domain.Key("Third")

		// a directory squatting on the second file name makes its write fail
		require.NoError(t, os.Mkdir(filepath.Join(dir, FileName(second)), 0755))

		p := partitionOf(t, map[domain.GroupKey][]domain.Row{
			first:  leadRows("A"),
			second: leadRows("B"),
			third:  leadRows("C"),
		}, first, second, third)

		written, err := NewXLSXExporter(dir, logger).Export(context.Background(), p)

		var exportErr *apperrors.ExportError
		require.ErrorAs(t, err, &exportErr)
		assert.Equal(t, filepath.Join(dir, FileName(second)), exportErr.Path)
		assert.Equal(t, []string{FileName(first)}, written)

		assert.FileExists(t, filepath.Join(dir, FileName(first)))
		assert.NoFileExists(t, filepath.Join(dir, FileName(third)))
		assert.Len(t, logs.GetRecordsByLevel(slog.LevelError), 1)
	})
}
