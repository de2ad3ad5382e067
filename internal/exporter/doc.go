// Package exporter writes partitioned lead tables to .xlsx workbooks.
//
// XLSXExporter creates one workbook per sponsor partition, named after the
// sponsor with spaces replaced by underscores:
//
//	exp := exporter.NewXLSXExporter("output", logger)
//	names, err := exp.Export(ctx, partition)
//	// names: ["Acme_Corp_devbcn-25-leads.xlsx", ...]
//
// Each workbook has a single sheet, a header row and the partition rows in
// order. Numbers are written as numeric cells and missing values as empty
// cells. Existing files are overwritten.
package exporter
