package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cellcli/internal/config"
	"cellcli/internal/exporter"
	"cellcli/internal/infrastructure"
	"cellcli/internal/pipeline"
	"cellcli/internal/validation"
)

func main() {
	stepPath := flag.String("step", "", "path to the cycler step export (.csv or .xlsx)")
	detailPath := flag.String("detail", "", "path to the cycler detail export (.csv or .xlsx)")
	outDir := flag.String("out", "", "output directory (defaults to config export.output_dir)")
	capacity := flag.Float64("capacity", 0, "nominal cell capacity in Ah (overrides config)")
	refStep := flag.Int("ref", 0, "step number of the SOC reference discharge (0 = auto-select)")
	downsample := flag.Float64("downsample", -1, "detail downsample interval in seconds (overrides config, 0 disables)")
	interpolate := flag.Bool("interpolate-soc", false, "interpolate per-measurement SOC across each step")
	flag.Parse()

	if *stepPath == "" || *detailPath == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -step <file> -detail <file> [-out dir] [-capacity Ah] [-ref N]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *capacity > 0 {
		cfg.Pipeline.NominalCapacity = *capacity
	}
	if *downsample >= 0 {
		cfg.Pipeline.DownsampleInterval = *downsample
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	shutdown, err := infrastructure.InitializeTracing(ctx, logger, cfg.Logging.Development)
	if err != nil {
		logger.Warn("Tracing disabled", slog.String("error", err.Error()))
	} else {
		defer shutdown(ctx)
	}

	logger.Info("Starting cycler export processing",
		slog.String("step_file", *stepPath),
		slog.String("detail_file", *detailPath),
		slog.String("output_dir", *outDir),
		slog.Float64("nominal_capacity", cfg.Pipeline.NominalCapacity))

	opts := pipeline.Options{InterpolateSOC: *interpolate}
	if *refStep > 0 {
		opts.ReferenceStep = refStep
	}

	proc := pipeline.NewProcessor(cfg.Pipeline, logger)
	result, err := proc.Run(ctx, *stepPath, *detailPath, opts)
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "processing failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	steps := exporter.NewStepExporter(*outDir)
	if err := steps.ExportSteps(result.Steps, "step_normalized.csv"); err != nil {
		logger.Error("Step export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := steps.ExportMeasurements(result.Measurements, "detail_normalized.csv"); err != nil {
		logger.Error("Measurement export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(*outDir)
	exports := []struct {
		doc  any
		file string
	}{
		{result.Report, "step_report.json"},
		{result.DetailReport, "detail_report.json"},
		{result.Summary, "step_summary.json"},
		{result.Meta, "run_meta.json"},
	}
	for _, e := range exports {
		if err := reports.ExportJSON(e.doc, e.file); err != nil {
			logger.Error("Report export failed",
				slog.String("file", e.file),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	printSeverityCounts("step report", result.Report)
	printSeverityCounts("detail report", result.DetailReport)

	logger.Info("Processing complete",
		slog.String("run_id", result.Meta.RunID),
		slog.Int("steps", len(result.Steps)),
		slog.Int("measurements", len(result.Measurements)))
	fmt.Printf("Processed %d steps and %d measurements (run %s)\n",
		len(result.Steps), len(result.Measurements), result.Meta.RunID)
}

func printSeverityCounts(label string, report validation.Report) {
	status := "VALID"
	if !report.Valid {
		status = "ISSUES"
	}
	fmt.Printf("%s: %s (%d critical, %d warning, %d info)\n",
		label, status,
		len(report.IssuesBySeverity[validation.SeverityCritical]),
		len(report.IssuesBySeverity[validation.SeverityWarning]),
		len(report.IssuesBySeverity[validation.SeverityInfo]))
}
