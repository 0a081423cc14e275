package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellcli/pkg/contracts/domain"
)

func TestSummarizeSteps(t *testing.T) {
	steps := []domain.StepRecord{
		{
			StepNumber: 1, StepType: domain.StepTypeCharge,
			VoltageEnd: domain.Float64(4.2), Capacity: domain.Float64(8.5),
		},
		{
			StepNumber: 3, StepType: domain.StepTypeCharge,
			VoltageEnd: domain.Float64(4.1), Capacity: domain.Float64(8.3),
		},
		{
			StepNumber: 2, StepType: domain.StepTypeDischarge,
			VoltageEnd: domain.Float64(2.8), Capacity: domain.Float64(-8.4),
		},
		{
			StepNumber: 4, StepType: domain.StepTypeRest,
			VoltageEnd: domain.Float64(3.3),
		},
	}

	summary := SummarizeSteps(steps, 8.5)
	require.Len(t, summary.Groups, 3)

	var charge *GroupSummary
	for i := range summary.Groups {
		if summary.Groups[i].StepType == domain.StepTypeCharge {
			charge = &summary.Groups[i]
		}
	}
	require.NotNil(t, charge)
	assert.Equal(t, 2, charge.Steps)
	assert.Equal(t, []int{1, 3}, charge.StepNumbers)

	voltage := charge.Stats["voltage"]
	require.NotNil(t, voltage)
	assert.InDelta(t, 4.1, voltage.Min, 1e-9)
	assert.InDelta(t, 4.2, voltage.Max, 1e-9)
	assert.InDelta(t, 4.15, voltage.Mean, 1e-9)
	assert.InDelta(t, 4.15, voltage.Median, 1e-9)
	assert.Equal(t, 2, voltage.Count)

	assert.Nil(t, charge.Stats["soc"], "metrics nobody carries produce no stats")

	// Discharge capacity and retention against nominal.
	require.NotNil(t, summary.DischargeCapacity)
	assert.InDelta(t, 8.4, *summary.DischargeCapacity, 1e-9)
	require.NotNil(t, summary.RetentionPercent)
	assert.InDelta(t, 98.82, *summary.RetentionPercent, 1e-9)
}

func TestSummarizeStepsNoNominal(t *testing.T) {
	steps := []domain.StepRecord{
		{StepNumber: 1, StepType: domain.StepTypeDischarge, Capacity: domain.Float64(-8.0)},
	}
	summary := SummarizeSteps(steps, 0)
	assert.Nil(t, summary.DischargeCapacity)
	assert.Nil(t, summary.RetentionPercent)
}

func TestDescribeMedian(t *testing.T) {
	odd := describe([]float64{3, 1, 2})
	assert.InDelta(t, 2, odd.Median, 1e-9)

	even := describe([]float64{4, 1, 3, 2})
	assert.InDelta(t, 2.5, even.Median, 1e-9)

	single := describe([]float64{7})
	assert.Equal(t, 0.0, single.Std)
	assert.Nil(t, describe(nil))
}
