// Package config provides the ambient configuration of the lead exporter and
// the fixed constants of the lead sheet format.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file named by LEADS_CONFIG_FILE
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEADS_* for namespacing:
//
//	LEADS_LOG_LEVEL=debug
//	LEADS_LOG_FORMAT=text
//	LEADS_LOG_OUTPUT=both
//	LEADS_LOG_FILE_PATH=logs/leadexporter.log
//	LEADS_TELEMETRY_TRACE_EXPORTER=stdout
//	LEADS_TELEMETRY_METRIC_EXPORTER=stdout
//
// None of these change which rows end up in which file; the pipeline's
// inputs are the CLI arguments only.
//
// # Lead Sheet Format
//
// RequiredColumns lists the columns every input sheet must carry, in output
// order. CategoryColumn ("Description") selects the partition and
// OutputFileSuffix names the per-partition workbooks.
//
// # Validation
//
// Validate runs go-playground/validator struct tags and reports every
// failing field in one error. It is shared with the pipeline's run options.
package config
