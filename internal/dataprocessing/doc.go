// Package dataprocessing loads lead sheets and reshapes them for export.
//
// Two components make up the package:
//
//  1. Loader: reads the first sheet of an .xlsx workbook into a domain.Table
//  2. Transformer: keeps the required lead columns and splits rows by sponsor
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	table, err := loader.Load(ctx, "leads.xlsx")
//	if err != nil {
//	    return err
//	}
//
//	tr := dataprocessing.NewTransformer(logger)
//	extracted, err := tr.Extract(ctx, table)
//	if err != nil {
//	    return err
//	}
//	partition, err := tr.Group(ctx, extracted)
//
// # Cell values
//
// Shared and inline strings load as strings, numeric cells as numbers and
// empty cells as missing values. Boolean cells load as "TRUE" or "FALSE".
// Empty header cells are named "Unnamed: <index>".
//
// # Error Handling
//
// Load failures are *errors.LoadError. Extract and Group report absent
// columns with *errors.MissingColumnError, naming every absent column at
// once.
package dataprocessing
