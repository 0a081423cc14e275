package validation

import (
	"fmt"
	"math"
	"sort"
)

// CheckResult is the outcome of one independent check. Missing input
// columns leave Valid true — "no signal" is not a failure — and carry an
// informational issue instead.
type CheckResult struct {
	Name         string   `json:"name"`
	Valid        bool     `json:"valid"`
	Issues       []string `json:"issues"`
	AffectedRows []int    `json:"affected_rows"`
}

func columnMissing(name, column string) CheckResult {
	return CheckResult{
		Name:   name,
		Valid:  true,
		Issues: []string{fmt.Sprintf("%s column not found in table", column)},
	}
}

// CheckSOCRange flags SOC values outside [0-tolerance, 100+tolerance].
func CheckSOCRange(t *Table, tolerance float64) CheckResult {
	const name = "soc_range"
	col, ok := t.Column("soc")
	if !ok {
		return columnMissing(name, "SOC")
	}

	var low, high []int
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		if v < 0-tolerance {
			low = append(low, i)
		} else if v > 100+tolerance {
			high = append(high, i)
		}
	}

	res := CheckResult{Name: name, Valid: len(low)+len(high) == 0}
	if len(low) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d rows with SOC below %.1f%% (minimum: %.2f%%)", len(low), 0-tolerance, minV))
	}
	if len(high) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d rows with SOC above %.1f%% (maximum: %.2f%%)", len(high), 100+tolerance, maxV))
	}
	res.AffectedRows = append(low, high...)
	return res
}

// CheckCRate flags negative C-rates and C-rates above the ceiling.
func CheckCRate(t *Table, maxCRate float64) CheckResult {
	const name = "c_rate"
	col, ok := t.Column("c_rate")
	if !ok {
		return columnMissing(name, "C-rate")
	}

	var negative, high []int
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		if v < 0 {
			negative = append(negative, i)
		} else if v > maxCRate {
			high = append(high, i)
		}
	}

	res := CheckResult{Name: name, Valid: len(negative)+len(high) == 0}
	if len(negative) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d rows with negative C-rate values (minimum: %.2f)", len(negative), minV))
	}
	if len(high) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d rows with C-rate above %.1f (maximum: %.2f)", len(high), maxCRate, maxV))
	}
	res.AffectedRows = append(negative, high...)
	return res
}

// CheckContinuity sorts rows by timestamp (or execution_time for detail
// tables) and flags successive gaps exceeding maxGapSeconds. The row
// after each gap is the affected one. Because execution_time restarts at
// zero on every step, the fallback sorts by (step_number, execution_time)
// and only diffs rows of the same step.
func CheckContinuity(t *Table, maxGapSeconds float64) CheckResult {
	const name = "data_continuity"

	gaps := continuityGaps(t)
	if gaps == nil {
		return columnMissing(name, "Timestamp")
	}

	var affected []int
	maxGap, sumGap := 0.0, 0.0
	count := 0
	for _, g := range gaps {
		if g.seconds <= maxGapSeconds {
			continue
		}
		affected = append(affected, g.row)
		count++
		sumGap += g.seconds
		if g.seconds > maxGap {
			maxGap = g.seconds
		}
	}

	res := CheckResult{Name: name, Valid: count == 0, AffectedRows: affected}
	if count > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d time gaps exceeding %.1f seconds (max: %.2fs, avg: %.2fs)",
				count, maxGapSeconds, maxGap, sumGap/float64(count)))
	}
	return res
}

type gap struct {
	row     int // original index of the row after the gap
	seconds float64
}

func continuityGaps(t *Table) []gap {
	if times := t.Times(); times != nil {
		idx := make([]int, len(times))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return times[idx[a]].Before(times[idx[b]]) })
		gaps := make([]gap, 0, len(idx))
		for i := 1; i < len(idx); i++ {
			gaps = append(gaps, gap{
				row:     idx[i],
				seconds: times[idx[i]].Sub(times[idx[i-1]]).Seconds(),
			})
		}
		return gaps
	}

	col, ok := t.Column("execution_time")
	if !ok {
		return nil
	}
	numbers := t.StepNumbers()
	idx := make([]int, len(col))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if numbers != nil && numbers[idx[a]] != numbers[idx[b]] {
			return numbers[idx[a]] < numbers[idx[b]]
		}
		return col[idx[a]] < col[idx[b]]
	})
	gaps := make([]gap, 0, len(idx))
	for i := 1; i < len(idx); i++ {
		// A step boundary is not a sampling gap.
		if numbers != nil && numbers[idx[i]] != numbers[idx[i-1]] {
			continue
		}
		gaps = append(gaps, gap{row: idx[i], seconds: col[idx[i]] - col[idx[i-1]]})
	}
	return gaps
}

// CheckValueJumps flags percent changes between consecutive values of a
// column exceeding maxJumpPercent. Rows whose predecessor is zero or
// missing are skipped — there is no meaningful percent base.
func CheckValueJumps(t *Table, column string, maxJumpPercent float64) CheckResult {
	name := column + "_jumps"
	col, ok := t.Column(column)
	if !ok {
		return columnMissing(name, fmt.Sprintf("'%s'", column))
	}
	if t.Len() < 2 {
		return CheckResult{Name: name, Valid: true}
	}

	var affected []int
	maxJump := 0.0
	prev := math.NaN()
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if !math.IsNaN(prev) && prev != 0 {
			change := math.Abs((v-prev)/prev) * 100
			if change > maxJumpPercent {
				affected = append(affected, i)
				if change > maxJump {
					maxJump = change
				}
			}
		}
		prev = v
	}

	res := CheckResult{Name: name, Valid: len(affected) == 0, AffectedRows: affected}
	if len(affected) > 0 {
		res.Issues = append(res.Issues,
			fmt.Sprintf("Found %d jumps in '%s' exceeding %.1f%% (maximum: %.2f%%)",
				len(affected), column, maxJumpPercent, maxJump))
	}
	return res
}
