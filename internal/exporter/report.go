package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "cellcli/internal/errors"
)

// ReportExporter serializes validation reports and run metadata to JSON.
type ReportExporter struct {
	baseDir string
}

// NewReportExporter creates a report exporter rooted at baseDir.
func NewReportExporter(baseDir string) *ReportExporter {
	return &ReportExporter{baseDir: baseDir}
}

// ExportJSON writes any serializable document as indented JSON.
func (e *ReportExporter) ExportJSON(doc any, filePath string) error {
	fullPath := filePath
	if !filepath.IsAbs(filePath) && e.baseDir != "" {
		fullPath = filepath.Join(e.baseDir, filePath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewExportError("failed to create report directory", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewExportError("failed to serialize report", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to write %s", filePath), err)
	}

	slog.Info("Exported JSON report",
		slog.String("file", filePath),
		slog.Int("bytes", len(data)))
	return nil
}
