package validation

import (
	"math"
	"sort"

	"cellcli/pkg/contracts/domain"
)

// ColumnStats are descriptive statistics over one metric of a step group.
type ColumnStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

// GroupSummary describes all steps sharing one step type.
type GroupSummary struct {
	StepType    domain.StepType         `json:"step_type"`
	Steps       int                     `json:"steps"`
	StepNumbers []int                   `json:"step_numbers"`
	Stats       map[string]*ColumnStats `json:"stats"`
}

// StepSummary is the whole-run summary table.
type StepSummary struct {
	Groups            []GroupSummary `json:"groups"`
	DischargeCapacity *float64       `json:"discharge_capacity,omitempty"`
	RetentionPercent  *float64       `json:"retention_percent,omitempty"`
}

// SummarizeSteps groups steps by type and computes descriptive statistics
// per metric. When nominalCapacity is positive, the largest absolute
// discharge capacity and the retention against nominal are included.
func SummarizeSteps(steps []domain.StepRecord, nominalCapacity float64) StepSummary {
	groups := make(map[domain.StepType]*GroupSummary)
	values := make(map[domain.StepType]map[string][]float64)

	metrics := []struct {
		name string
		get  func(domain.StepRecord) *float64
	}{
		{"voltage", func(s domain.StepRecord) *float64 { return s.VoltageEnd }},
		{"current", func(s domain.StepRecord) *float64 { return s.Current }},
		{"capacity", func(s domain.StepRecord) *float64 { return s.Capacity }},
		{"c_rate", func(s domain.StepRecord) *float64 { return s.CRate }},
		{"temperature", func(s domain.StepRecord) *float64 { return s.Temperature }},
		{"soc", func(s domain.StepRecord) *float64 { return s.SOCEnd }},
	}

	for _, s := range steps {
		g, ok := groups[s.StepType]
		if !ok {
			g = &GroupSummary{StepType: s.StepType, Stats: make(map[string]*ColumnStats)}
			groups[s.StepType] = g
			values[s.StepType] = make(map[string][]float64)
		}
		g.Steps++
		g.StepNumbers = append(g.StepNumbers, s.StepNumber)
		for _, m := range metrics {
			if v := m.get(s); v != nil {
				values[s.StepType][m.name] = append(values[s.StepType][m.name], *v)
			}
		}
	}

	out := StepSummary{}
	for _, g := range groups {
		for name, vals := range values[g.StepType] {
			g.Stats[name] = describe(vals)
		}
		sort.Ints(g.StepNumbers)
		out.Groups = append(out.Groups, *g)
	}
	sort.Slice(out.Groups, func(i, j int) bool {
		return out.Groups[i].StepType < out.Groups[j].StepType
	})

	if nominalCapacity > 0 {
		if dc, ok := largestDischargeCapacity(steps); ok {
			retention := math.Round(dc/nominalCapacity*10000) / 100
			out.DischargeCapacity = domain.Float64(dc)
			out.RetentionPercent = domain.Float64(retention)
		}
	}
	return out
}

func largestDischargeCapacity(steps []domain.StepRecord) (float64, bool) {
	best, found := 0.0, false
	for _, s := range steps {
		if s.StepType != domain.StepTypeDischarge || s.Capacity == nil {
			continue
		}
		if v := math.Abs(*s.Capacity); !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}

func describe(vals []float64) *ColumnStats {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	if len(sorted) > 1 {
		for _, v := range sorted {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(sorted) - 1)
	}

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return &ColumnStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Median: median,
		Std:    math.Sqrt(variance),
		Count:  len(sorted),
	}
}
