package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellcli/pkg/contracts/domain"
)

func TestExtractOCV(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	step := func(number int, stepType domain.StepType, startOffset, duration time.Duration, voltageEnd float64) domain.StepRecord {
		end := base.Add(startOffset + duration)
		return domain.StepRecord{
			StepNumber: number,
			StepType:   stepType,
			StartTime:  base.Add(startOffset),
			EndTime:    &end,
			VoltageEnd: domain.Float64(voltageEnd),
		}
	}

	steps := []domain.StepRecord{
		step(1, domain.StepTypeCharge, 0, time.Hour, 4.20),
		step(2, domain.StepTypeRest, time.Hour, 10*time.Minute, 4.15),
		step(3, domain.StepTypeDischarge, 70*time.Minute, time.Hour, 2.80),
		step(4, domain.StepTypeRest, 130*time.Minute, 10*time.Minute, 3.10),
		step(5, domain.StepTypeCharge, 140*time.Minute, time.Hour, 4.20),
	}

	out := ExtractOCV(steps)

	// Rest steps carry their own relaxed voltage.
	require.NotNil(t, out[1].OCV)
	assert.InDelta(t, 4.15, *out[1].OCV, 1e-9)
	require.NotNil(t, out[3].OCV)
	assert.InDelta(t, 3.10, *out[3].OCV, 1e-9)

	// Active steps inherit the rest that begins when they end.
	require.NotNil(t, out[0].OCV)
	assert.InDelta(t, 4.15, *out[0].OCV, 1e-9, "charge step takes the following rest")
	require.NotNil(t, out[2].OCV)
	assert.InDelta(t, 3.10, *out[2].OCV, 1e-9, "discharge step takes the following rest")

	// The final charge has no rest after it.
	assert.Nil(t, out[4].OCV)

	// Input untouched.
	assert.Nil(t, steps[0].OCV)
}

func TestExtractOCVNoRestSteps(t *testing.T) {
	steps := []domain.StepRecord{
		{StepNumber: 1, StepType: domain.StepTypeCharge, VoltageEnd: domain.Float64(4.2)},
		{StepNumber: 2, StepType: domain.StepTypeDischarge, VoltageEnd: domain.Float64(2.8)},
	}
	out := ExtractOCV(steps)
	assert.Nil(t, out[0].OCV)
	assert.Nil(t, out[1].OCV)
}
