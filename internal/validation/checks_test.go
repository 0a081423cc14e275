package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellcli/pkg/contracts/domain"
)

func tableWith(t *testing.T, name string, values []float64) *Table {
	t.Helper()
	tbl := NewTable(len(values))
	tbl.SetColumn(name, values)
	return tbl
}

func TestCheckSOCRange(t *testing.T) {
	t.Run("within tolerance", func(t *testing.T) {
		res := CheckSOCRange(tableWith(t, "soc", []float64{-2.9, 0, 50, 102.9}), 3.0)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Issues)
	})

	t.Run("out of range", func(t *testing.T) {
		res := CheckSOCRange(tableWith(t, "soc", []float64{-5, 50, 110, math.NaN()}), 3.0)
		assert.False(t, res.Valid)
		require.Len(t, res.Issues, 2)
		assert.Contains(t, res.Issues[0], "SOC below")
		assert.Contains(t, res.Issues[1], "SOC above")
		assert.ElementsMatch(t, []int{0, 2}, res.AffectedRows)
	})

	t.Run("missing column degrades to info", func(t *testing.T) {
		res := CheckSOCRange(NewTable(3), 3.0)
		assert.True(t, res.Valid, "absence of the column is not a failure")
		require.Len(t, res.Issues, 1)
		assert.Contains(t, res.Issues[0], "column not found")
	})
}

func TestCheckCRate(t *testing.T) {
	t.Run("plausible rates", func(t *testing.T) {
		res := CheckCRate(tableWith(t, "c_rate", []float64{0, 0.5, 2.0}), 10.0)
		assert.True(t, res.Valid)
	})

	t.Run("negative and excessive", func(t *testing.T) {
		res := CheckCRate(tableWith(t, "c_rate", []float64{-0.5, 1.0, 15.0}), 10.0)
		assert.False(t, res.Valid)
		require.Len(t, res.Issues, 2)
		assert.Contains(t, res.Issues[0], "negative C-rate")
		assert.Contains(t, res.Issues[1], "C-rate above")
		assert.ElementsMatch(t, []int{0, 2}, res.AffectedRows)
	})

	t.Run("missing column", func(t *testing.T) {
		res := CheckCRate(NewTable(2), 10.0)
		assert.True(t, res.Valid)
		assert.Contains(t, res.Issues[0], "column not found")
	})
}

func TestCheckContinuity(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("step timestamps", func(t *testing.T) {
		tbl := NewTable(4)
		tbl.SetTimes([]time.Time{
			base,
			base.Add(5 * time.Second),
			base.Add(100 * time.Second), // 95 s gap
			base.Add(105 * time.Second),
		})
		res := CheckContinuity(tbl, 10.0)
		assert.False(t, res.Valid)
		require.Len(t, res.Issues, 1)
		assert.Contains(t, res.Issues[0], "time gaps exceeding 10.0 seconds")
		assert.Equal(t, []int{2}, res.AffectedRows)
	})

	t.Run("execution time fallback", func(t *testing.T) {
		res := CheckContinuity(tableWith(t, "execution_time", []float64{0, 5, 10, 80}), 10.0)
		assert.False(t, res.Valid)
		assert.Equal(t, []int{3}, res.AffectedRows)
	})

	t.Run("no gaps", func(t *testing.T) {
		res := CheckContinuity(tableWith(t, "execution_time", []float64{0, 5, 10}), 10.0)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Issues)
	})

	t.Run("hole inside one step is not masked by another step's clock", func(t *testing.T) {
		// Step 1 stops sampling between 10 s and 210 s while step 2
		// samples every 10 s over the same offsets.
		exec := []float64{0, 10, 210, 220}
		numbers := []int{1, 1, 1, 1}
		for s := 0.0; s <= 220; s += 10 {
			exec = append(exec, s)
			numbers = append(numbers, 2)
		}
		tbl := NewTable(len(exec))
		tbl.SetColumn("execution_time", exec)
		tbl.SetStepNumbers(numbers)

		res := CheckContinuity(tbl, 10.0)
		assert.False(t, res.Valid)
		assert.Equal(t, []int{2}, res.AffectedRows, "the 190 s hole in step 1 is the only gap")
	})

	t.Run("execution time restart at a step boundary is not a gap", func(t *testing.T) {
		tbl := NewTable(4)
		tbl.SetColumn("execution_time", []float64{0, 1800, 0, 1800})
		tbl.SetStepNumbers([]int{1, 1, 2, 2})

		res := CheckContinuity(tbl, 10.0)
		assert.False(t, res.Valid, "the sparse sampling within each step is still flagged")
		assert.ElementsMatch(t, []int{1, 3}, res.AffectedRows)
	})

	t.Run("no time source", func(t *testing.T) {
		res := CheckContinuity(NewTable(3), 10.0)
		assert.True(t, res.Valid)
		assert.Contains(t, res.Issues[0], "column not found")
	})
}

func TestCheckValueJumps(t *testing.T) {
	t.Run("jump above threshold", func(t *testing.T) {
		res := CheckValueJumps(tableWith(t, "voltage", []float64{4.0, 4.1, 3.0}), "voltage", 5.0)
		assert.False(t, res.Valid)
		assert.Equal(t, []int{2}, res.AffectedRows)
		assert.Contains(t, res.Issues[0], "jumps in 'voltage'")
	})

	t.Run("zero predecessor skipped", func(t *testing.T) {
		res := CheckValueJumps(tableWith(t, "current", []float64{0, 4.25, 4.25}), "current", 20.0)
		assert.True(t, res.Valid, "no percent base from a zero predecessor")
	})

	t.Run("NaN rows bridged", func(t *testing.T) {
		res := CheckValueJumps(tableWith(t, "voltage", []float64{4.0, math.NaN(), 4.05}), "voltage", 5.0)
		assert.True(t, res.Valid)
	})
}

func TestTableFromSteps(t *testing.T) {
	steps := []domain.StepRecord{
		{
			StepNumber: 1,
			StepType:   domain.StepTypeCharge,
			StartTime:  time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			SOCEnd:     domain.Float64(50),
			VoltageEnd: domain.Float64(4.2),
		},
		{
			StepNumber: 2,
			StepType:   domain.StepTypeRest,
			StartTime:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			VoltageEnd: domain.Float64(4.15),
		},
	}

	tbl := TableFromSteps(steps)
	assert.Equal(t, 2, tbl.Len())

	soc, ok := tbl.Column("soc")
	require.True(t, ok)
	assert.InDelta(t, 50, soc[0], 1e-9)
	assert.True(t, math.IsNaN(soc[1]), "missing values become NaN")

	assert.False(t, tbl.HasColumn("c_rate"), "all-nil metrics are not added")
	assert.Len(t, tbl.Times(), 2)
	assert.Equal(t, domain.StepTypeRest, tbl.StepTypes()[1])
	assert.Equal(t, []int{1, 2}, tbl.StepNumbers())
}

func TestTableFromMeasurementsCarriesStepNumbers(t *testing.T) {
	details := []domain.MeasurementRecord{
		{StepNumber: 1, ExecutionTime: 0, Voltage: domain.Float64(3.3)},
		{StepNumber: 1, ExecutionTime: 10, Voltage: domain.Float64(3.31)},
		{StepNumber: 2, ExecutionTime: 0, Voltage: domain.Float64(3.35)},
	}

	tbl := TableFromMeasurements(details)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []int{1, 1, 2}, tbl.StepNumbers())

	exec, ok := tbl.Column("execution_time")
	require.True(t, ok)
	assert.InDelta(t, 10, exec[1], 1e-9)
}
