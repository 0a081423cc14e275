package metrics

import (
	"cellcli/pkg/contracts/domain"
)

// InterpolateMeasurementSOC linearly interpolates each step's soc_start →
// soc_end across its measurements by execution time and returns a new
// detail slice. Measurements of steps without both SOC endpoints keep nil.
//
// This is deliberately a separate opt-in from CalculateSOC: coulomb
// counting defines SOC at step boundaries only, and consumers that want a
// per-sample value must ask for the interpolation explicitly.
func InterpolateMeasurementSOC(steps []domain.StepRecord, details []domain.MeasurementRecord) []domain.MeasurementRecord {
	type span struct {
		start, end float64
		duration   float64
	}

	spans := make(map[int]span, len(steps))
	for _, s := range steps {
		if s.SOCStart == nil || s.SOCEnd == nil {
			continue
		}
		sp := span{start: *s.SOCStart, end: *s.SOCEnd}
		if s.Duration != nil {
			sp.duration = *s.Duration
		}
		spans[s.StepNumber] = sp
	}

	// Fall back to the last sample's execution time when the step table
	// carries no duration.
	lastSample := make(map[int]float64, len(spans))
	for _, m := range details {
		if m.ExecutionTime > lastSample[m.StepNumber] {
			lastSample[m.StepNumber] = m.ExecutionTime
		}
	}

	out := domain.CloneMeasurements(details)
	for i := range out {
		sp, ok := spans[out[i].StepNumber]
		if !ok {
			continue
		}
		total := sp.duration
		if total <= 0 {
			total = lastSample[out[i].StepNumber]
		}
		var soc float64
		if total <= 0 {
			soc = sp.end
		} else {
			frac := out[i].ExecutionTime / total
			if frac > 1 {
				frac = 1
			}
			soc = round2(sp.start + (sp.end-sp.start)*frac)
		}
		out[i].SOC = &soc
	}
	return out
}
