package metrics

import (
	"sort"
	"time"

	"cellcli/pkg/contracts/domain"
)

// ExtractOCV populates open-circuit voltage on a copy of the step slice.
// Rest steps contribute their own end voltage; every other step inherits
// the OCV of the nearest rest step starting at or after its end, since
// the cell has relaxed by then. Steps with no following rest keep nil.
func ExtractOCV(steps []domain.StepRecord) []domain.StepRecord {
	out := domain.CloneSteps(steps)

	type restPoint struct {
		start time.Time
		ocv   float64
	}

	var rests []restPoint
	for i := range out {
		if out[i].StepType != domain.StepTypeRest || out[i].VoltageEnd == nil {
			continue
		}
		v := *out[i].VoltageEnd
		out[i].OCV = &v
		rests = append(rests, restPoint{start: out[i].StartTime, ocv: v})
	}
	sort.Slice(rests, func(a, b int) bool { return rests[a].start.Before(rests[b].start) })

	for i := range out {
		if out[i].StepType == domain.StepTypeRest {
			continue
		}
		after := out[i].StartTime
		if out[i].EndTime != nil {
			after = *out[i].EndTime
		}
		pos := sort.Search(len(rests), func(j int) bool {
			return !rests[j].start.Before(after)
		})
		if pos < len(rests) {
			v := rests[pos].ocv
			out[i].OCV = &v
		}
	}

	return out
}
