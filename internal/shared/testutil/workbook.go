package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// LeadHeader is the header of a well-formed lead sheet plus one column the
// exporter ignores.
var LeadHeader = []interface{}{
	"Full name", "Job Title", "Email", "tech stack", "Years of Experience",
	"country", "city", "company", "Lead Status", "Sponsor notes", "Description",
	"Extra Column",
}

// LeadRow builds one lead sheet row matching LeadHeader
func LeadRow(name, email string, years int, sponsor interface{}) []interface{} {
	return []interface{}{
		name, "Engineer", email, "Go", years,
		"ES", "BCN", "Co", "new", "met at booth", sponsor,
		"extra",
	}
}

// SampleLeadRows is the three-lead sheet used across package tests: two
// leads for sponsor "One", one for "Two".
func SampleLeadRows() [][]interface{} {
	return [][]interface{}{
		LeadRow("A", "a@example.com", 1, "One"),
		LeadRow("B", "b@example.com", 2, "Two"),
		LeadRow("C", "c@example.com", 3, "One"),
	}
}

// WriteWorkbook saves header and rows to dir/name on the first sheet,
// renamed to sheet when non-empty. nil cells are left empty.
func WriteWorkbook(t *testing.T, dir, name, sheet string, header []interface{}, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else {
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	}

	if header != nil {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	}
	for i, row := range rows {
		for j, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// ReadWorkbook returns the rows of the first sheet of path as raw strings
func ReadWorkbook(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0], excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}
