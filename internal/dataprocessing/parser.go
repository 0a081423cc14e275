package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	cellerrors "cellcli/internal/errors"
	"cellcli/pkg/contracts/domain"
)

// Parser turns raw cycler exports into normalized record collections.
// The dictionaries are read-only; a Parser is safe for concurrent use
// across independent runs.
type Parser struct {
	stepDict   HeaderDict
	detailDict HeaderDict
	stepTypes  StepTypeDict
	logger     *slog.Logger
}

// NewParser creates a parser with the default ChromaLex dictionaries.
func NewParser(logger *slog.Logger) *Parser {
	return NewParserWithDicts(logger, DefaultStepDict(), DefaultDetailDict(), DefaultStepTypes())
}

// NewParserWithDicts creates a parser with injected dictionaries, for
// alternate vendors or deterministic tests.
func NewParserWithDicts(logger *slog.Logger, step, detail HeaderDict, types StepTypeDict) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		stepDict:   step,
		detailDict: detail,
		stepTypes:  types,
		logger:     logger,
	}
}

// ParseStepFile parses the per-step summary table. On success it returns
// the normalized records plus a non-nil warning when required headers
// matched only semantically. On schema failure it returns a
// MissingHeaderError and no records.
func (p *Parser) ParseStepFile(path string) ([]domain.StepRecord, *cellerrors.AmbiguousHeaderWarning, error) {
	headers, rows, err := readRawTable(path)
	if err != nil {
		return nil, nil, cellerrors.NewParsingError("failed to read step table", err)
	}

	res := ValidateSchema(headers, p.stepDict)
	if !res.OK {
		return nil, nil, &cellerrors.MissingHeaderError{Table: p.stepDict.Table, Missing: res.Missing}
	}
	warning := res.Warning(p.stepDict.Table)
	if warning != nil {
		p.logger.Warn("step table headers matched only semantically",
			slog.String("file", path),
			slog.Int("semantic_matches", len(res.SemanticOnly)))
	}

	cols := columnIndex(headers, p.stepDict, res)

	steps := make([]domain.StepRecord, 0, len(rows))
	for _, row := range rows {
		number, ok := cellInt(row, cols, "step_number")
		if !ok {
			continue // trailing summary or blank separator row
		}
		rec := domain.StepRecord{
			StepNumber:       number,
			OriginalStepType: cellString(row, cols, "step_type"),
			VoltageEnd:       cellFloat(row, cols, "voltage_end"),
			Current:          cellFloat(row, cols, "current"),
			Capacity:         cellFloat(row, cols, "capacity"),
			TotalCapacity:    cellFloat(row, cols, "total_capacity"),
			Energy:           cellFloat(row, cols, "energy"),
			Power:            cellFloat(row, cols, "power"),
			Temperature:      cellFloat(row, cols, "temperature"),
			Duration:         cellFloat(row, cols, "duration"),
		}
		rec.StepType = p.stepTypes.Classify(rec.OriginalStepType)
		if t, ok := cellTime(row, cols, "start_time"); ok {
			rec.StartTime = t
		}
		if t, ok := cellTime(row, cols, "end_time"); ok {
			rec.EndTime = domain.Time(t)
		}
		steps = append(steps, rec)
	}

	steps = normalizeSteps(steps)

	p.logger.Info("step table parsed",
		slog.String("file", path),
		slog.Int("steps", len(steps)))

	return steps, warning, nil
}

// ParseDetailFile parses the per-measurement detail table, sorted by step
// number and execution time.
func (p *Parser) ParseDetailFile(path string) ([]domain.MeasurementRecord, *cellerrors.AmbiguousHeaderWarning, error) {
	headers, rows, err := readRawTable(path)
	if err != nil {
		return nil, nil, cellerrors.NewParsingError("failed to read detail table", err)
	}

	res := ValidateSchema(headers, p.detailDict)
	if !res.OK {
		return nil, nil, &cellerrors.MissingHeaderError{Table: p.detailDict.Table, Missing: res.Missing}
	}
	warning := res.Warning(p.detailDict.Table)
	if warning != nil {
		p.logger.Warn("detail table headers matched only semantically",
			slog.String("file", path),
			slog.Int("semantic_matches", len(res.SemanticOnly)))
	}

	cols := columnIndex(headers, p.detailDict, res)

	details := make([]domain.MeasurementRecord, 0, len(rows))
	for _, row := range rows {
		number, ok := cellInt(row, cols, "step_number")
		if !ok {
			continue
		}
		rec := domain.MeasurementRecord{
			StepNumber:  number,
			Voltage:     cellFloat(row, cols, "voltage"),
			Current:     cellFloat(row, cols, "current"),
			Temperature: cellFloat(row, cols, "temperature"),
			Capacity:    cellFloat(row, cols, "capacity"),
			Energy:      cellFloat(row, cols, "energy"),
		}
		// The export carries two execution-time variants; the per-step
		// one wins when both are present.
		if v := cellFloat(row, cols, "execution_time"); v != nil {
			rec.ExecutionTime = *v
		} else if v := cellFloat(row, cols, "execution_time_alt"); v != nil {
			rec.ExecutionTime = *v
		}
		details = append(details, rec)
	}

	SortMeasurements(details)

	p.logger.Info("detail table parsed",
		slog.String("file", path),
		slog.Int("measurements", len(details)))

	return details, warning, nil
}

// columnIndex maps canonical field names to column positions, honoring
// exact renames first and semantic matches for whatever is left.
func columnIndex(headers []string, dict HeaderDict, res SchemaResult) map[string]int {
	cols := make(map[string]int)
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, seen := position[h]; !seen {
			position[h] = i
		}
		if canonical, ok := dict.Rename[h]; ok {
			if _, taken := cols[canonical]; !taken {
				cols[canonical] = i
			}
		}
	}
	for required, actual := range res.SemanticOnly {
		canonical := dict.Rename[required]
		if canonical == "" {
			continue
		}
		if _, taken := cols[canonical]; taken {
			continue
		}
		if i, ok := position[strings.TrimSpace(actual)]; ok {
			cols[canonical] = i
		}
	}
	return cols
}

func cellString(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellFloat(row []string, cols map[string]int, name string) *float64 {
	s := cellString(row, cols, name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func cellInt(row []string, cols map[string]int, name string) (int, bool) {
	s := cellString(row, cols, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// timeLayouts covers the timestamp formats observed in cycler exports.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"01/02/2006 15:04:05",
}

func cellTime(row []string, cols map[string]int, name string) (time.Time, bool) {
	s := cellString(row, cols, name)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
