package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellcli/pkg/contracts/domain"
)

func tempSample(step int, execTime, temp float64) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		StepNumber:    step,
		ExecutionTime: execTime,
		Temperature:   domain.Float64(temp),
	}
}

func TestTemperatureStatsByStep(t *testing.T) {
	details := []domain.MeasurementRecord{
		tempSample(1, 0, 25.0),
		tempSample(1, 10, 26.0),
		tempSample(1, 20, 27.0),
		tempSample(2, 0, 30.0),
		{StepNumber: 3, ExecutionTime: 0}, // no probe reading
	}

	stats := TemperatureStatsByStep(details)
	require.Len(t, stats, 2)

	s1 := stats[1]
	assert.Equal(t, 3, s1.Samples)
	assert.InDelta(t, 26.0, s1.Avg, 1e-9)
	assert.InDelta(t, 25.0, s1.Min, 1e-9)
	assert.InDelta(t, 27.0, s1.Max, 1e-9)
	assert.InDelta(t, 1.0, s1.Std, 1e-9, "sample std of 25,26,27")

	s2 := stats[2]
	assert.Equal(t, 1, s2.Samples)
	assert.InDelta(t, 30.0, s2.Avg, 1e-9)
	assert.Equal(t, 0.0, s2.Std, "single sample has no spread")

	_, ok := stats[3]
	assert.False(t, ok, "steps without readings get no entry")
}

func TestMergeTemperatureStats(t *testing.T) {
	steps := []domain.StepRecord{
		{StepNumber: 1},
		{StepNumber: 2},
	}
	stats := map[int]TemperatureStats{
		1: {Avg: 26.0, Min: 25.0, Max: 27.0, Std: 1.0, Samples: 3},
	}

	out := MergeTemperatureStats(steps, stats)

	require.NotNil(t, out[0].TemperatureAvg)
	assert.InDelta(t, 26.0, *out[0].TemperatureAvg, 1e-9)
	require.NotNil(t, out[0].TemperatureStd)
	assert.InDelta(t, 1.0, *out[0].TemperatureStd, 1e-9)

	assert.Nil(t, out[1].TemperatureAvg, "steps without stats stay bare")
	assert.Nil(t, steps[0].TemperatureAvg, "input untouched")
}
