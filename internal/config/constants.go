package config

import (
	"os"

	"leadexporter/pkg/contracts"
)

// Application constants
const (
	AppName    = contracts.Name
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable read by Load
	EnvPrefix = "LEADS"

	// CategoryColumn is the column rows are partitioned by
	CategoryColumn = "Description"

	// OutputFileSuffix is appended to every partition file name
	OutputFileSuffix = "_devbcn-25-leads.xlsx"

	// DefaultOutputDir is used when no output directory is given
	DefaultOutputDir = "output"

	// OutputSheetName is the sheet every exported workbook carries
	OutputSheetName = "Sheet1"

	// WorkbookExtension is the extension of input and output files
	WorkbookExtension = ".xlsx"

	// Default logging values
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "console"
	DefaultLogFilePath = "logs/leadexporter.log"

	// Default telemetry values
	DefaultTraceExporter  = "none"
	DefaultMetricExporter = "none"
	DefaultSampleRatio    = 1.0

	DirPermissions  os.FileMode = 0755
	FilePermissions os.FileMode = 0644
)

// RequiredColumns is the fixed, ordered column set every lead sheet must
// carry. CategoryColumn is last.
var RequiredColumns = []string{
	"Full name",
	"Job Title",
	"Email",
	"tech stack",
	"Years of Experience",
	"country",
	"city",
	"company",
	"Lead Status",
	"Sponsor notes",
	CategoryColumn,
}

// RequiredColumnSet returns a fresh copy of RequiredColumns
func RequiredColumnSet() []string {
	return append([]string(nil), RequiredColumns...)
}
