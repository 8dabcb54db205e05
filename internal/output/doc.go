// Package output provides formatters for displaying brogw command results.
//
// The package supports multiple output formats (table, JSON, YAML) behind one
// Formatter interface covering workspace wells, filter histograms and download
// outcomes.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Format workspace wells
//	formatter.FormatWells(os.Stdout, wells)
//
//	// Format the outcomes of a download batch
//	formatter.FormatOutcomes(os.Stdout, report.Outcomes)
//
// # Options
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// # Formatters
//
// Table Formatter:
//   - Borderless tables with tab-separated columns
//   - Optional color highlighting for status, errors and well keys
//   - Summary line after download outcomes
//   - Wide mode for additional well attributes and error messages
//
// JSON and YAML Formatters:
//   - Indented output suitable for scripting
//   - Missing well attributes are omitted
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled with
// WithNoColor(true) or by redirecting output.
package output
