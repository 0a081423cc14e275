package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cellcli/internal/config"
	"cellcli/internal/dataprocessing"
	apperrors "cellcli/internal/errors"
	"cellcli/internal/infrastructure"
	"cellcli/internal/metrics"
	"cellcli/internal/validation"
	"cellcli/pkg/contracts/domain"
)

// Options tunes a single run beyond the static configuration.
type Options struct {
	// ReferenceStep forces the SOC reference step. When set, a SOC
	// failure is fatal; when nil the reference is auto-selected and a
	// failure only degrades the result.
	ReferenceStep *int

	// InterpolateSOC populates per-measurement SOC by linear
	// interpolation across each step. Off by default.
	InterpolateSOC bool
}

// Result is everything one run produces.
type Result struct {
	Steps        []domain.StepRecord
	Measurements []domain.MeasurementRecord
	Report       validation.Report
	DetailReport validation.Report
	Summary      validation.StepSummary
	Meta         domain.RunMeta
	Warnings     []string
}

// Processor drives the extract-derive-validate pipeline for one
// step/detail export pair.
type Processor struct {
	cfg    config.PipelineConfig
	logger *slog.Logger

	files  *validation.FileValidator
	parser *dataprocessing.Parser
	engine *validation.Engine
}

// NewProcessor creates a processor. A nil logger falls back to
// slog.Default.
func NewProcessor(cfg config.PipelineConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	opts := validation.DefaultOptions()
	opts.SOCTolerance = cfg.SOCTolerance
	opts.MaxCRate = cfg.MaxCRate
	opts.MaxGapSeconds = cfg.MaxGapSeconds
	opts.AnomalyWindow = cfg.AnomalyWindow
	opts.ZScoreThreshold = cfg.ZScoreThreshold
	opts.MaxCapacityPct = cfg.MaxCapacityChange
	opts.DetectAnomalies = cfg.DetectAnomalies

	return &Processor{
		cfg:    cfg,
		logger: logger,
		files:  validation.NewFileValidator(logger),
		parser: dataprocessing.NewParser(logger),
		engine: validation.NewEngine(opts, logger),
	}
}

// Run executes the pipeline. Extraction and integrity failures are
// fatal; everything downstream degrades into warnings and report issues
// so a flawed file still yields an inspectable result.
func (p *Processor) Run(ctx context.Context, stepPath, detailPath string, opts Options) (*Result, error) {
	tracer := infrastructure.Tracer()
	ctx, span := tracer.Start(ctx, "pipeline.Run",
		trace.WithAttributes(
			attribute.String("step_file", stepPath),
			attribute.String("detail_file", detailPath)))
	defer span.End()

	res := &Result{}

	if err := p.validateInputs(ctx, tracer, stepPath, detailPath); err != nil {
		return nil, err
	}

	steps, details, err := p.parse(ctx, tracer, stepPath, detailPath, res)
	if err != nil {
		return nil, err
	}

	if err := p.checkIntegrity(ctx, tracer, steps, details); err != nil {
		return nil, err
	}

	steps, details, err = p.deriveMetrics(ctx, tracer, steps, details, opts, res)
	if err != nil {
		return nil, err
	}

	if p.cfg.DownsampleInterval > 0 {
		details = dataprocessing.Downsample(details, p.cfg.DownsampleInterval)
		p.logger.InfoContext(ctx, "downsampled detail table",
			slog.Float64("interval_seconds", p.cfg.DownsampleInterval),
			slog.Int("measurements", len(details)))
	}

	res.Steps = steps
	res.Measurements = details

	p.report(ctx, tracer, res)

	stepMeta, err := fileMeta(stepPath, len(steps))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeIntegrity, "failed to fingerprint step file", err)
	}
	detailMeta, err := fileMeta(detailPath, len(details))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeIntegrity, "failed to fingerprint detail file", err)
	}
	res.Meta = buildRunMeta(steps, stepMeta, detailMeta, p.cfg.NominalCapacity)

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.String("run_id", res.Meta.RunID),
		slog.Int("steps", len(res.Steps)),
		slog.Int("measurements", len(res.Measurements)),
		slog.Bool("step_report_valid", res.Report.Valid),
		slog.Int("warnings", len(res.Warnings)))
	return res, nil
}

func (p *Processor) validateInputs(ctx context.Context, tracer trace.Tracer, stepPath, detailPath string) error {
	_, span := tracer.Start(ctx, "pipeline.validateInputs")
	defer span.End()

	if err := p.files.ValidateInputFile(stepPath); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeParsing, "step file rejected", err)
	}
	if err := p.files.ValidateInputFile(detailPath); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeParsing, "detail file rejected", err)
	}
	return nil
}

func (p *Processor) parse(ctx context.Context, tracer trace.Tracer, stepPath, detailPath string, res *Result) ([]domain.StepRecord, []domain.MeasurementRecord, error) {
	ctx, span := tracer.Start(ctx, "pipeline.parse")
	defer span.End()

	steps, stepWarn, err := p.parser.ParseStepFile(stepPath)
	if err != nil {
		return nil, nil, err
	}
	if stepWarn != nil {
		res.Warnings = append(res.Warnings, stepWarn.Error())
		p.logger.WarnContext(ctx, "step schema matched semantically",
			slog.String("warning", stepWarn.Error()))
	}

	details, detailWarn, err := p.parser.ParseDetailFile(detailPath)
	if err != nil {
		return nil, nil, err
	}
	if detailWarn != nil {
		res.Warnings = append(res.Warnings, detailWarn.Error())
		p.logger.WarnContext(ctx, "detail schema matched semantically",
			slog.String("warning", detailWarn.Error()))
	}

	span.SetAttributes(
		attribute.Int("steps", len(steps)),
		attribute.Int("measurements", len(details)))
	return steps, details, nil
}

func (p *Processor) checkIntegrity(ctx context.Context, tracer trace.Tracer, steps []domain.StepRecord, details []domain.MeasurementRecord) error {
	_, span := tracer.Start(ctx, "pipeline.checkIntegrity")
	defer span.End()

	if err := dataprocessing.CheckReferences(steps, details); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeIntegrity, "detail table references unknown steps", err)
	}
	return nil
}

// deriveMetrics runs the metric stages in dependency order. Each stage
// failure downgrades to a warning except an explicitly requested SOC
// reference, which the caller asked for and must get.
func (p *Processor) deriveMetrics(ctx context.Context, tracer trace.Tracer, steps []domain.StepRecord, details []domain.MeasurementRecord, opts Options, res *Result) ([]domain.StepRecord, []domain.MeasurementRecord, error) {
	ctx, span := tracer.Start(ctx, "pipeline.deriveMetrics")
	defer span.End()

	if p.cfg.NominalCapacity > 0 {
		s, d, err := metrics.ApplyCRate(steps, details, p.cfg.NominalCapacity)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("c-rate skipped: %v", err))
		} else {
			steps, details = s, d
		}
	} else {
		res.Warnings = append(res.Warnings, "c-rate skipped: nominal capacity not configured")
	}

	steps = metrics.MergeTemperatureStats(steps, metrics.TemperatureStatsByStep(details))

	s, d, err := metrics.CalculateSOC(steps, details, opts.ReferenceStep)
	switch {
	case err != nil && opts.ReferenceStep != nil:
		// The caller named a reference; degrading silently would hand
		// back numbers they did not ask for.
		return nil, nil, apperrors.NewAppError(apperrors.ErrTypeSOC,
			fmt.Sprintf("soc failed for requested reference step %d", *opts.ReferenceStep), err)
	case err != nil:
		res.Warnings = append(res.Warnings, fmt.Sprintf("soc skipped: %v", err))
		p.logger.WarnContext(ctx, "soc calculation skipped", slog.String("error", err.Error()))
	default:
		steps, details = s, d
		if opts.InterpolateSOC {
			details = metrics.InterpolateMeasurementSOC(steps, details)
		}
	}

	steps = metrics.ExtractOCV(steps)
	return steps, details, nil
}

func (p *Processor) report(ctx context.Context, tracer trace.Tracer, res *Result) {
	_, span := tracer.Start(ctx, "pipeline.report")
	defer span.End()

	res.Report = p.engine.GenerateReport(validation.TableFromSteps(res.Steps))
	res.DetailReport = p.engine.GenerateReport(validation.TableFromMeasurements(res.Measurements))
	res.Summary = validation.SummarizeSteps(res.Steps, p.cfg.NominalCapacity)
}
