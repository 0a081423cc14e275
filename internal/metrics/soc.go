package metrics

import (
	"math"
	"sort"

	cellerrors "cellcli/internal/errors"
	"cellcli/pkg/contracts/domain"
)

// CalculateSOC derives state of charge for every step by coulomb counting
// against a zero-reference discharge step.
//
// If refStepNumber is nil the reference is auto-selected: the second
// discharge step in step-number order, or the only one when just one
// exists. The reference step's soc_end is exactly 0; every step at or
// after it in chronological order gets
//
//	soc_end = 100 * (total_capacity - ref_total_capacity) / |ref_capacity|
//
// and soc_start chained from the preceding step's soc_end. Steps strictly
// before the reference keep nil SOC — there is no absolute zero point to
// back-compute them from.
//
// The detail table is returned unchanged; measurement-level SOC is an
// explicit opt-in via InterpolateMeasurementSOC.
func CalculateSOC(steps []domain.StepRecord, details []domain.MeasurementRecord, refStepNumber *int) ([]domain.StepRecord, []domain.MeasurementRecord, error) {
	out := domain.CloneSteps(steps)
	for i := range out {
		out[i].SOCStart = nil
		out[i].SOCEnd = nil
	}

	refIdx, err := resolveReference(out, refStepNumber)
	if err != nil {
		return nil, nil, err
	}

	ref := out[refIdx]
	if ref.TotalCapacity == nil {
		return nil, nil, &cellerrors.MissingColumnError{Column: "total_capacity"}
	}
	if ref.Capacity == nil {
		return nil, nil, &cellerrors.MissingColumnError{Column: "capacity"}
	}
	refTotal := *ref.TotalCapacity
	refCap := math.Abs(*ref.Capacity)
	if refCap == 0 {
		return nil, nil, &cellerrors.InvalidParameterError{
			Param:  "reference_capacity",
			Value:  0,
			Reason: "reference discharge step transferred no charge",
		}
	}

	// Chronological pass. Ties fall back to step-number order.
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := out[order[a]].StartTime, out[order[b]].StartTime
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return out[order[a]].StepNumber < out[order[b]].StepNumber
	})

	refPos := 0
	for pos, idx := range order {
		if idx == refIdx {
			refPos = pos
			break
		}
	}

	for pos := refPos; pos < len(order); pos++ {
		s := &out[order[pos]]
		if s.TotalCapacity == nil {
			continue
		}
		soc := round2(100 * (*s.TotalCapacity - refTotal) / refCap)
		s.SOCEnd = &soc
	}
	// The reference anchors the scale; pin it against rounding drift.
	zero := 0.0
	out[refIdx].SOCEnd = &zero

	for pos := refPos + 1; pos < len(order); pos++ {
		prev := out[order[pos-1]]
		if prev.SOCEnd != nil {
			v := *prev.SOCEnd
			out[order[pos]].SOCStart = &v
		}
	}
	// The reference step's own soc_start comes from the step before it,
	// which may sit slightly below zero on the same scale.
	if refPos > 0 {
		prev := out[order[refPos-1]]
		if prev.TotalCapacity != nil {
			v := round2(100 * (*prev.TotalCapacity - refTotal) / refCap)
			out[refIdx].SOCStart = &v
		}
	}

	return out, details, nil
}

// resolveReference picks the zero-reference step index within steps.
func resolveReference(steps []domain.StepRecord, refStepNumber *int) (int, error) {
	if refStepNumber != nil {
		for i, s := range steps {
			if s.StepNumber == *refStepNumber {
				if s.StepType != domain.StepTypeDischarge {
					return 0, &cellerrors.WrongStepTypeError{
						StepNumber: s.StepNumber,
						Got:        string(s.StepType),
					}
				}
				return i, nil
			}
		}
		return 0, &cellerrors.ReferenceStepNotFoundError{Reference: *refStepNumber}
	}

	var discharges []int
	for i, s := range steps {
		if s.StepType == domain.StepTypeDischarge {
			discharges = append(discharges, i)
		}
	}
	if len(discharges) == 0 {
		return 0, &cellerrors.NoDischargeStepsError{}
	}
	sort.Slice(discharges, func(a, b int) bool {
		return steps[discharges[a]].StepNumber < steps[discharges[b]].StepNumber
	})
	// The first discharge is usually a formation or capacity-check cycle;
	// the second one represents the full reference discharge.
	if len(discharges) >= 2 {
		return discharges[1], nil
	}
	return discharges[0], nil
}
