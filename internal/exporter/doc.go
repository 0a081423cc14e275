// Package exporter writes normalized cycler data to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// StepExporter: Writes the normalized step summary table and, via the
// streaming writer, the per-measurement detail table.
//
// ReportExporter: Serializes validation reports and run metadata to JSON.
//
// Example usage:
//
//	steps := exporter.NewStepExporter("/path/to/out")
//	err := steps.ExportSteps(records, "step_normalized.csv")
//
//	reports := exporter.NewReportExporter("/path/to/out")
//	err = reports.ExportReport(report, "step_report.json")
package exporter
