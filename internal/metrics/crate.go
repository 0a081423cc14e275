package metrics

import (
	"math"

	cellerrors "cellcli/internal/errors"
	"cellcli/pkg/contracts/domain"
)

// CRate computes charge/discharge current as a multiple of nominal
// capacity, rounded to two decimals. Direction does not matter, so the
// magnitude of the current is used. A nonpositive nominal capacity is
// physically meaningless and rejected.
func CRate(current, nominalCapacity float64) (float64, error) {
	if nominalCapacity <= 0 {
		return 0, &cellerrors.InvalidParameterError{
			Param:  "nominal_capacity",
			Value:  nominalCapacity,
			Reason: "must be positive",
		}
	}
	return round2(math.Abs(current) / nominalCapacity), nil
}

// ApplyCRate returns copies of both record sets with c_rate populated on
// every row that carries a current. Rows without a current keep nil.
func ApplyCRate(steps []domain.StepRecord, details []domain.MeasurementRecord, nominalCapacity float64) ([]domain.StepRecord, []domain.MeasurementRecord, error) {
	// Validate once up front so a bad parameter cannot yield a half-annotated copy.
	if _, err := CRate(0, nominalCapacity); err != nil {
		return nil, nil, err
	}

	outSteps := domain.CloneSteps(steps)
	for i := range outSteps {
		if outSteps[i].Current == nil {
			continue
		}
		rate, _ := CRate(*outSteps[i].Current, nominalCapacity)
		outSteps[i].CRate = &rate
	}

	outDetails := domain.CloneMeasurements(details)
	for i := range outDetails {
		if outDetails[i].Current == nil {
			continue
		}
		rate, _ := CRate(*outDetails[i].Current, nominalCapacity)
		outDetails[i].CRate = &rate
	}

	return outSteps, outDetails, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
