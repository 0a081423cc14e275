package validation

import (
	"fmt"
	"math"
)

// DetectVoltageAnomalies runs a centered rolling-window z-score over the
// voltage column. It returns an annotated copy of the table carrying
// voltage_zscore and voltage_is_anomaly columns, plus the check result.
// Windows with zero variance carry no signal and are never anomalous.
func DetectVoltageAnomalies(t *Table, windowSize int, zThreshold float64) (*Table, CheckResult) {
	const name = "voltage_anomalies"

	annotated := t.Copy()
	col, ok := t.Column("voltage")
	if !ok || t.Len() < windowSize {
		zscore := make([]float64, t.Len())
		for i := range zscore {
			zscore[i] = math.NaN()
		}
		annotated.SetColumn("voltage_zscore", zscore)
		annotated.SetFlags("voltage_is_anomaly", make([]bool, t.Len()))
		return annotated, CheckResult{Name: name, Valid: true}
	}

	zscore := make([]float64, len(col))
	flags := make([]bool, len(col))
	var affected []int

	half := windowSize / 2
	for i := range col {
		zscore[i] = math.NaN()
		lo, hi := i-half, i-half+windowSize // centered window [lo, hi)
		if lo < 0 || hi > len(col) || math.IsNaN(col[i]) {
			continue
		}
		// The candidate itself is excluded: a spike inside its own
		// window inflates the std enough to mask itself.
		mean, std, n := rollingStats(col[lo:hi], i-lo)
		if n < windowSize-1 || std == 0 {
			continue
		}
		z := math.Abs(col[i]-mean) / std
		zscore[i] = z
		if z > zThreshold {
			flags[i] = true
			affected = append(affected, i)
		}
	}

	annotated.SetColumn("voltage_zscore", zscore)
	annotated.SetFlags("voltage_is_anomaly", flags)

	res := CheckResult{Name: name, Valid: len(affected) == 0, AffectedRows: affected}
	if len(affected) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d voltage anomalies using statistical analysis", len(affected)))
	}
	return annotated, res
}

// rollingStats returns the mean and sample standard deviation of the
// window, ignoring NaN entries and the sample at index skip.
func rollingStats(window []float64, skip int) (mean, std float64, n int) {
	for i, v := range window {
		if i == skip || math.IsNaN(v) {
			continue
		}
		mean += v
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean /= float64(n)
	if n < 2 {
		return mean, 0, n
	}
	var variance float64
	for i, v := range window {
		if i == skip || math.IsNaN(v) {
			continue
		}
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n - 1)
	return mean, math.Sqrt(variance), n
}

// DetectCapacityAnomalies flags capacity values below minThreshold and,
// grouped by step type when labels are present, percent changes between
// consecutive rows exceeding maxChangePercent. Returns an annotated copy
// with capacity_pct_change and capacity_is_anomaly columns.
func DetectCapacityAnomalies(t *Table, minThreshold, maxChangePercent float64) (*Table, CheckResult) {
	const name = "capacity_anomalies"

	annotated := t.Copy()
	col, ok := t.Column("capacity")
	if !ok {
		pct := make([]float64, t.Len())
		for i := range pct {
			pct[i] = math.NaN()
		}
		annotated.SetColumn("capacity_pct_change", pct)
		annotated.SetFlags("capacity_is_anomaly", make([]bool, t.Len()))
		return annotated, CheckResult{Name: name, Valid: true}
	}

	pct := make([]float64, len(col))
	flags := make([]bool, len(col))
	var affected []int

	for i, v := range col {
		pct[i] = math.NaN()
		if !math.IsNaN(v) && v < minThreshold {
			flags[i] = true
		}
	}

	// Percent change is meaningful only within rows of the same step type.
	types := t.StepTypes()
	prevByGroup := make(map[string]float64)
	for i, v := range col {
		group := ""
		if types != nil {
			group = string(types[i])
		}
		if math.IsNaN(v) {
			continue
		}
		if prev, ok := prevByGroup[group]; ok && prev != 0 {
			change := math.Abs((v-prev)/prev) * 100
			pct[i] = change
			if change > maxChangePercent {
				flags[i] = true
			}
		}
		prevByGroup[group] = v
	}

	for i, bad := range flags {
		if bad {
			affected = append(affected, i)
		}
	}

	annotated.SetColumn("capacity_pct_change", pct)
	annotated.SetFlags("capacity_is_anomaly", flags)

	res := CheckResult{Name: name, Valid: len(affected) == 0, AffectedRows: affected}
	if len(affected) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d capacity anomalies", len(affected)))
	}
	return annotated, res
}
