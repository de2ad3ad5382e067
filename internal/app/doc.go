// Package app wires the lead export pipeline together.
//
// An Application runs four stages in order, each in its own trace span
// under a "pipeline.run" span:
//
//	1. load: read the input workbook
//	2. extract: keep the required lead columns
//	3. group: split rows by the Description column
//	4. export: write one workbook per sponsor
//
// # Usage
//
//	application := app.New(logger, telemetry)
//	result, err := application.Run(ctx, app.Options{
//	    InputFile: "leads.xlsx",
//	    OutputDir: "output",
//	})
//
// Every run gets a run ID (see infrastructure.EnsureRunID) that is attached
// to log records and spans. Running twice on the same input produces the
// same files with the same content.
package app
