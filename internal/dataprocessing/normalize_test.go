package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cellerrors "cellcli/internal/errors"
	"cellcli/pkg/contracts/domain"
)

func measurement(step int, execTime float64) domain.MeasurementRecord {
	return domain.MeasurementRecord{StepNumber: step, ExecutionTime: execTime}
}

func TestCheckReferences(t *testing.T) {
	steps := []domain.StepRecord{
		{StepNumber: 1},
		{StepNumber: 2},
	}

	t.Run("all measurements resolve", func(t *testing.T) {
		details := []domain.MeasurementRecord{
			measurement(1, 0),
			measurement(2, 0),
			measurement(2, 10),
		}
		assert.NoError(t, CheckReferences(steps, details))
	})

	t.Run("dangling rows are an integrity error", func(t *testing.T) {
		details := []domain.MeasurementRecord{
			measurement(1, 0),
			measurement(7, 0),
			measurement(7, 10),
			measurement(9, 0),
		}
		err := CheckReferences(steps, details)
		var dangling *cellerrors.DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, []int{7, 9}, dangling.StepNumbers)
		assert.Equal(t, 3, dangling.Rows)
	})
}

func TestDownsample(t *testing.T) {
	details := []domain.MeasurementRecord{
		measurement(1, 0),
		measurement(1, 4),
		measurement(1, 9),
		measurement(1, 10),
		measurement(1, 19.5),
		measurement(1, 20),
		measurement(2, 0),
		measurement(2, 5),
	}

	t.Run("keeps first sample per bucket per step", func(t *testing.T) {
		out := Downsample(details, 10)
		require.Len(t, out, 4)
		assert.InDelta(t, 0, out[0].ExecutionTime, 1e-9)
		assert.InDelta(t, 10, out[1].ExecutionTime, 1e-9)
		assert.InDelta(t, 20, out[2].ExecutionTime, 1e-9)
		assert.Equal(t, 2, out[3].StepNumber)
		assert.InDelta(t, 0, out[3].ExecutionTime, 1e-9)
	})

	t.Run("nonpositive interval copies everything", func(t *testing.T) {
		out := Downsample(details, 0)
		assert.Equal(t, details, out)
		out[0].StepNumber = 99
		assert.Equal(t, 1, details[0].StepNumber, "result must be a copy")
	})
}
