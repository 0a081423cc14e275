package metrics

import (
	"math"

	"cellcli/pkg/contracts/domain"
)

// TemperatureStats aggregates a step's measurement temperatures.
type TemperatureStats struct {
	Avg     float64
	Min     float64
	Max     float64
	Std     float64 // sample standard deviation; 0 when fewer than 2 samples
	Samples int
}

// TemperatureStatsByStep aggregates detail temperatures per step.
// Measurements without a temperature are skipped.
func TemperatureStatsByStep(details []domain.MeasurementRecord) map[int]TemperatureStats {
	sums := make(map[int]*TemperatureStats)
	values := make(map[int][]float64)

	for _, m := range details {
		if m.Temperature == nil {
			continue
		}
		t := *m.Temperature
		st, ok := sums[m.StepNumber]
		if !ok {
			st = &TemperatureStats{Min: t, Max: t}
			sums[m.StepNumber] = st
		}
		st.Avg += t
		st.Samples++
		if t < st.Min {
			st.Min = t
		}
		if t > st.Max {
			st.Max = t
		}
		values[m.StepNumber] = append(values[m.StepNumber], t)
	}

	out := make(map[int]TemperatureStats, len(sums))
	for step, st := range sums {
		mean := st.Avg / float64(st.Samples)
		var variance float64
		if st.Samples > 1 {
			for _, v := range values[step] {
				variance += (v - mean) * (v - mean)
			}
			variance /= float64(st.Samples - 1)
		}
		out[step] = TemperatureStats{
			Avg:     mean,
			Min:     st.Min,
			Max:     st.Max,
			Std:     math.Sqrt(variance),
			Samples: st.Samples,
		}
	}
	return out
}

// MergeTemperatureStats copies the step slice and attaches per-step
// temperature statistics where available.
func MergeTemperatureStats(steps []domain.StepRecord, stats map[int]TemperatureStats) []domain.StepRecord {
	out := domain.CloneSteps(steps)
	for i := range out {
		st, ok := stats[out[i].StepNumber]
		if !ok {
			continue
		}
		out[i].TemperatureAvg = domain.Float64(st.Avg)
		out[i].TemperatureMin = domain.Float64(st.Min)
		out[i].TemperatureMax = domain.Float64(st.Max)
		out[i].TemperatureStd = domain.Float64(st.Std)
	}
	return out
}
