package exporter

import (
	"fmt"
	"log/slog"

	"cellcli/pkg/contracts/domain"
)

// StepExporter writes normalized step and measurement tables.
type StepExporter struct {
	csv *CSVWriter
}

// NewStepExporter creates a step exporter rooted at baseDir.
func NewStepExporter(baseDir string) *StepExporter {
	return &StepExporter{csv: NewCSVWriter(baseDir)}
}

var stepHeaders = []string{
	"step_number", "step_type", "original_step_type",
	"start_time", "end_time", "duration",
	"voltage_start", "voltage_end", "current",
	"capacity", "total_capacity", "energy", "power",
	"c_rate", "soc_start", "soc_end", "ocv",
	"temperature", "temperature_avg", "temperature_min", "temperature_max", "temperature_std",
}

var measurementHeaders = []string{
	"step_number", "execution_time",
	"voltage", "current", "temperature",
	"capacity", "energy", "c_rate", "soc",
}

// ExportSteps writes the normalized step summary table.
func (e *StepExporter) ExportSteps(steps []domain.StepRecord, filePath string) error {
	records := make([][]string, 0, len(steps))
	for _, s := range steps {
		records = append(records, []string{
			formatInt(s.StepNumber),
			string(s.StepType),
			s.OriginalStepType,
			formatTime(s.StartTime),
			formatTimePtr(s.EndTime),
			formatFloatPtr(s.Duration),
			formatFloatPtr(s.VoltageStart),
			formatFloatPtr(s.VoltageEnd),
			formatFloatPtr(s.Current),
			formatFloatPtr(s.Capacity),
			formatFloatPtr(s.TotalCapacity),
			formatFloatPtr(s.Energy),
			formatFloatPtr(s.Power),
			formatFloatPtr(s.CRate),
			formatFloatPtr(s.SOCStart),
			formatFloatPtr(s.SOCEnd),
			formatFloatPtr(s.OCV),
			formatFloatPtr(s.Temperature),
			formatFloatPtr(s.TemperatureAvg),
			formatFloatPtr(s.TemperatureMin),
			formatFloatPtr(s.TemperatureMax),
			formatFloatPtr(s.TemperatureStd),
		})
	}

	if err := e.csv.WriteSimpleCSV(filePath, stepHeaders, records); err != nil {
		return fmt.Errorf("failed to export steps: %w", err)
	}

	slog.Info("Exported step table",
		slog.String("file", filePath),
		slog.Int("steps", len(steps)))
	return nil
}

// ExportMeasurements streams the per-measurement detail table. Detail
// files routinely carry hundreds of thousands of rows, so rows are
// written one at a time instead of being materialized.
func (e *StepExporter) ExportMeasurements(details []domain.MeasurementRecord, filePath string) error {
	stream, err := e.csv.CreateStreamWriter(filePath, measurementHeaders)
	if err != nil {
		return fmt.Errorf("failed to create measurement stream: %w", err)
	}

	for i, m := range details {
		record := []string{
			formatInt(m.StepNumber),
			formatFloat(m.ExecutionTime),
			formatFloatPtr(m.Voltage),
			formatFloatPtr(m.Current),
			formatFloatPtr(m.Temperature),
			formatFloatPtr(m.Capacity),
			formatFloatPtr(m.Energy),
			formatFloatPtr(m.CRate),
			formatFloatPtr(m.SOC),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write measurement %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finalize measurement export: %w", err)
	}

	slog.Info("Exported measurement table",
		slog.String("file", filePath),
		slog.Int("measurements", len(details)))
	return nil
}
