package validation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"cellcli/pkg/contracts/domain"
)

// Options carries every check threshold the engine applies. Zero values
// are not meaningful; start from DefaultOptions.
type Options struct {
	SOCTolerance     float64
	MaxCRate         float64
	MaxGapSeconds    float64
	VoltageJumpPct   float64
	CurrentJumpPct   float64 // active steps
	RestCurrentPct   float64 // rest steps barely move current
	TemperaturePct   float64
	AnomalyWindow    int
	ZScoreThreshold  float64
	MinCapacity      float64
	MaxCapacityPct   float64
	DetectAnomalies  bool
	Rules            []SeverityRule
}

// DefaultOptions returns the thresholds used in production runs.
func DefaultOptions() Options {
	return Options{
		SOCTolerance:    3.0,
		MaxCRate:        10.0,
		MaxGapSeconds:   10.0,
		VoltageJumpPct:  5.0,
		CurrentJumpPct:  20.0,
		RestCurrentPct:  1.0,
		TemperaturePct:  10.0,
		AnomalyWindow:   5,
		ZScoreThreshold: 3.0,
		MinCapacity:     0.0,
		MaxCapacityPct:  20.0,
		DetectAnomalies: true,
		Rules:           DefaultSeverityRules(),
	}
}

// Report is the engine's complete outcome for one table.
type Report struct {
	Valid            bool                  `json:"valid"`
	Summary          string                `json:"summary"`
	Checks           []CheckResult         `json:"checks"`
	IssuesBySeverity map[Severity][]string `json:"issues_by_severity"`
	AffectedRows     []int                 `json:"affected_rows"`
	Annotated        *Table                `json:"-"`
}

// Engine runs the full check battery and classifies the findings.
type Engine struct {
	opts Options
	log  *slog.Logger
}

// NewEngine creates an engine. A nil logger falls back to slog.Default.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Rules == nil {
		opts.Rules = DefaultSeverityRules()
	}
	return &Engine{opts: opts, log: logger}
}

// GenerateReport runs every applicable check over the table. It never
// returns an error: checks for absent columns degrade to informational
// issues, and the report stays structurally complete either way.
func (e *Engine) GenerateReport(t *Table) Report {
	var checks []CheckResult

	checks = append(checks, CheckSOCRange(t, e.opts.SOCTolerance))
	checks = append(checks, CheckCRate(t, e.opts.MaxCRate))
	checks = append(checks, CheckContinuity(t, e.opts.MaxGapSeconds))
	checks = append(checks, CheckValueJumps(t, "voltage", e.opts.VoltageJumpPct))
	checks = append(checks, e.checkCurrentJumps(t))
	checks = append(checks, CheckValueJumps(t, "temperature", e.opts.TemperaturePct))

	annotated := t.Copy()
	if e.opts.DetectAnomalies {
		var res CheckResult
		annotated, res = DetectVoltageAnomalies(annotated, e.opts.AnomalyWindow, e.opts.ZScoreThreshold)
		checks = append(checks, res)
		annotated, res = DetectCapacityAnomalies(annotated, e.opts.MinCapacity, e.opts.MaxCapacityPct)
		checks = append(checks, res)
	}

	issues := make(map[Severity][]string)
	rowSet := make(map[int]struct{})
	valid := true
	for _, c := range checks {
		if !c.Valid {
			valid = false
		}
		for _, issue := range c.Issues {
			sev := ClassifySeverity(issue, e.opts.Rules)
			issues[sev] = append(issues[sev], issue)
		}
		for _, row := range c.AffectedRows {
			rowSet[row] = struct{}{}
		}
	}

	affected := make([]int, 0, len(rowSet))
	for row := range rowSet {
		affected = append(affected, row)
	}
	sort.Ints(affected)

	report := Report{
		Valid:            valid,
		Summary:          summarize(valid, issues, len(affected)),
		Checks:           checks,
		IssuesBySeverity: issues,
		AffectedRows:     affected,
		Annotated:        annotated,
	}

	e.log.Info("validation report generated",
		slog.Bool("valid", report.Valid),
		slog.Int("checks", len(checks)),
		slog.Int("critical", len(issues[SeverityCritical])),
		slog.Int("warning", len(issues[SeverityWarning])),
		slog.Int("info", len(issues[SeverityInfo])),
		slog.Int("affected_rows", len(affected)))
	return report
}

func summarize(valid bool, issues map[Severity][]string, affected int) string {
	if valid {
		return "All validation checks passed"
	}
	return fmt.Sprintf("Validation found issues: %d critical, %d warning, %d info (%d rows affected)",
		len(issues[SeverityCritical]), len(issues[SeverityWarning]), len(issues[SeverityInfo]), affected)
}

// checkCurrentJumps applies the jump check to current with a threshold
// that depends on the step type: rest steps should be near-flat, active
// steps legitimately swing.
func (e *Engine) checkCurrentJumps(t *Table) CheckResult {
	const name = "current_jumps"
	col, ok := t.Column("current")
	if !ok {
		return columnMissing(name, "'current'")
	}
	types := t.StepTypes()
	if types == nil {
		return CheckValueJumps(t, "current", e.opts.CurrentJumpPct)
	}

	var affected []int
	maxJump := 0.0
	prev := math.NaN()
	prevType := domain.StepTypeUnknown
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		// Only compare within a run of the same step type.
		if !math.IsNaN(prev) && prev != 0 && types[i] == prevType {
			threshold := e.opts.CurrentJumpPct
			if types[i] == domain.StepTypeRest {
				threshold = e.opts.RestCurrentPct
			}
			change := math.Abs((v-prev)/prev) * 100
			if change > threshold {
				affected = append(affected, i)
				if change > maxJump {
					maxJump = change
				}
			}
		}
		prev = v
		prevType = types[i]
	}

	res := CheckResult{Name: name, Valid: len(affected) == 0, AffectedRows: affected}
	if len(affected) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d jumps in 'current' exceeding the step-type threshold (maximum: %.2f%%)",
				len(affected), maxJump))
	}
	return res
}
