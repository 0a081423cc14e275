package dataprocessing

import (
	"sort"
	"time"

	cellerrors "cellcli/internal/errors"
	"cellcli/pkg/contracts/domain"
)

// normalizeSteps applies the post-mapping rules: sort by step number,
// deduplicate keeping the first occurrence, then backfill end time,
// duration and starting voltage where the export omitted them.
func normalizeSteps(steps []domain.StepRecord) []domain.StepRecord {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})

	deduped := steps[:0]
	seen := make(map[int]bool, len(steps))
	for _, s := range steps {
		if seen[s.StepNumber] {
			continue
		}
		seen[s.StepNumber] = true
		deduped = append(deduped, s)
	}
	steps = deduped

	for i := range steps {
		s := &steps[i]
		if s.EndTime == nil && s.Duration != nil && !s.StartTime.IsZero() {
			end := s.StartTime.Add(time.Duration(*s.Duration * float64(time.Second)))
			s.EndTime = &end
		}
		if s.Duration == nil && s.EndTime != nil && !s.StartTime.IsZero() {
			d := s.EndTime.Sub(s.StartTime).Seconds()
			s.Duration = &d
		}
		// Starting voltage carries over from the preceding step's cutoff;
		// the first step has nothing to inherit.
		if s.VoltageStart == nil && i > 0 && steps[i-1].VoltageEnd != nil {
			v := *steps[i-1].VoltageEnd
			s.VoltageStart = &v
		}
	}

	return steps
}

// SortMeasurements orders detail rows by step number, then execution time.
func SortMeasurements(details []domain.MeasurementRecord) {
	sort.SliceStable(details, func(i, j int) bool {
		if details[i].StepNumber != details[j].StepNumber {
			return details[i].StepNumber < details[j].StepNumber
		}
		return details[i].ExecutionTime < details[j].ExecutionTime
	})
}

// CheckReferences verifies that every measurement references an existing
// step. Dangling rows are a data-integrity error, not something to drop.
func CheckReferences(steps []domain.StepRecord, details []domain.MeasurementRecord) error {
	known := make(map[int]bool, len(steps))
	for _, s := range steps {
		known[s.StepNumber] = true
	}

	var rows int
	missing := make(map[int]bool)
	for _, m := range details {
		if !known[m.StepNumber] {
			rows++
			missing[m.StepNumber] = true
		}
	}
	if rows == 0 {
		return nil
	}

	numbers := make([]int, 0, len(missing))
	for n := range missing {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return &cellerrors.DanglingReferenceError{StepNumbers: numbers, Rows: rows}
}

// Downsample thins the detail table to at most one measurement per
// interval bucket per step, keeping the first sample in each bucket.
// A nonpositive interval returns a plain copy. Intended for the long
// aging runs where sub-second sampling swamps downstream consumers.
func Downsample(details []domain.MeasurementRecord, intervalSeconds float64) []domain.MeasurementRecord {
	if intervalSeconds <= 0 {
		return domain.CloneMeasurements(details)
	}

	sorted := domain.CloneMeasurements(details)
	SortMeasurements(sorted)

	out := make([]domain.MeasurementRecord, 0, len(sorted))
	lastStep := -1
	var lastBucket int64 = -1
	for _, m := range sorted {
		bucket := int64(m.ExecutionTime / intervalSeconds)
		if m.StepNumber != lastStep || bucket != lastBucket {
			out = append(out, m)
			lastStep = m.StepNumber
			lastBucket = bucket
		}
	}
	return out
}
