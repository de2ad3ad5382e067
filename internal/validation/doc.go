// Package validation checks input files before they reach the parser.
package validation
