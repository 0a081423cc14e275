package domain

import "time"

// StepType is the canonical classification of a cycler test step.
type StepType string

const (
	StepTypeCharge    StepType = "charge"
	StepTypeDischarge StepType = "discharge"
	StepTypeRest      StepType = "rest"
	StepTypeWaveform  StepType = "waveform"
	StepTypeUnknown   StepType = "unknown"
)

// IsActive reports whether current is expected to flow during the step.
func (s StepType) IsActive() bool {
	return s == StepTypeCharge || s == StepTypeDischarge || s == StepTypeWaveform
}

// StepRecord is one row of the normalized per-step summary table.
// Optional fields are pointers; nil means the source table did not carry
// the value and it could not be backfilled.
type StepRecord struct {
	StepNumber       int       `json:"step_number" csv:"step_number"`
	StepType         StepType  `json:"step_type" csv:"step_type"`
	OriginalStepType string    `json:"original_step_type" csv:"original_step_type"`
	StartTime        time.Time `json:"start_time" csv:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty" csv:"end_time"`
	Duration         *float64   `json:"duration,omitempty" csv:"duration"` // seconds
	VoltageStart     *float64   `json:"voltage_start,omitempty" csv:"voltage_start"`
	VoltageEnd       *float64   `json:"voltage_end,omitempty" csv:"voltage_end"`
	Current          *float64   `json:"current,omitempty" csv:"current"`
	Capacity         *float64   `json:"capacity,omitempty" csv:"capacity"`             // Ah transferred during this step
	TotalCapacity    *float64   `json:"total_capacity,omitempty" csv:"total_capacity"` // cumulative Ah counter for the run
	Energy           *float64   `json:"energy,omitempty" csv:"energy"`
	Power            *float64   `json:"power,omitempty" csv:"power"`
	Temperature      *float64   `json:"temperature,omitempty" csv:"temperature"`
	TemperatureAvg   *float64   `json:"temperature_avg,omitempty" csv:"temperature_avg"`
	TemperatureMin   *float64   `json:"temperature_min,omitempty" csv:"temperature_min"`
	TemperatureMax   *float64   `json:"temperature_max,omitempty" csv:"temperature_max"`
	TemperatureStd   *float64   `json:"temperature_std,omitempty" csv:"temperature_std"`
	OCV              *float64   `json:"ocv,omitempty" csv:"ocv"`
	CRate            *float64   `json:"c_rate,omitempty" csv:"c_rate"`
	SOCStart         *float64   `json:"soc_start,omitempty" csv:"soc_start"`
	SOCEnd           *float64   `json:"soc_end,omitempty" csv:"soc_end"`
}

// MeasurementRecord is one row of the normalized per-measurement detail
// table. StepNumber must reference an existing StepRecord.
type MeasurementRecord struct {
	StepNumber    int      `json:"step_number" csv:"step_number"`
	ExecutionTime float64  `json:"execution_time" csv:"execution_time"` // seconds since step start
	Voltage       *float64 `json:"voltage,omitempty" csv:"voltage"`
	Current       *float64 `json:"current,omitempty" csv:"current"`
	Temperature   *float64 `json:"temperature,omitempty" csv:"temperature"`
	Capacity      *float64 `json:"capacity,omitempty" csv:"capacity"`
	Energy        *float64 `json:"energy,omitempty" csv:"energy"`
	CRate         *float64 `json:"c_rate,omitempty" csv:"c_rate"`
	SOC           *float64 `json:"soc,omitempty" csv:"soc"` // populated only by explicit interpolation
}

// Float64 returns a pointer to v. Convenience for building records.
func Float64(v float64) *float64 { return &v }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

// CloneSteps returns a deep copy of the step slice. Pipeline stages return
// augmented copies instead of mutating caller-owned input.
func CloneSteps(steps []StepRecord) []StepRecord {
	out := make([]StepRecord, len(steps))
	for i, s := range steps {
		c := s
		c.EndTime = cloneTime(s.EndTime)
		c.Duration = cloneFloat(s.Duration)
		c.VoltageStart = cloneFloat(s.VoltageStart)
		c.VoltageEnd = cloneFloat(s.VoltageEnd)
		c.Current = cloneFloat(s.Current)
		c.Capacity = cloneFloat(s.Capacity)
		c.TotalCapacity = cloneFloat(s.TotalCapacity)
		c.Energy = cloneFloat(s.Energy)
		c.Power = cloneFloat(s.Power)
		c.Temperature = cloneFloat(s.Temperature)
		c.TemperatureAvg = cloneFloat(s.TemperatureAvg)
		c.TemperatureMin = cloneFloat(s.TemperatureMin)
		c.TemperatureMax = cloneFloat(s.TemperatureMax)
		c.TemperatureStd = cloneFloat(s.TemperatureStd)
		c.OCV = cloneFloat(s.OCV)
		c.CRate = cloneFloat(s.CRate)
		c.SOCStart = cloneFloat(s.SOCStart)
		c.SOCEnd = cloneFloat(s.SOCEnd)
		out[i] = c
	}
	return out
}

// CloneMeasurements returns a deep copy of the measurement slice.
func CloneMeasurements(details []MeasurementRecord) []MeasurementRecord {
	out := make([]MeasurementRecord, len(details))
	for i, m := range details {
		c := m
		c.Voltage = cloneFloat(m.Voltage)
		c.Current = cloneFloat(m.Current)
		c.Temperature = cloneFloat(m.Temperature)
		c.Capacity = cloneFloat(m.Capacity)
		c.Energy = cloneFloat(m.Energy)
		c.CRate = cloneFloat(m.CRate)
		c.SOC = cloneFloat(m.SOC)
		out[i] = c
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	t := *p
	return &t
}
