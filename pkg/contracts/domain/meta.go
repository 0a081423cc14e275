package domain

import "time"

// FileMeta describes one ingested source file. The storage collaborator
// uses the hash to detect files that were already processed.
type FileMeta struct {
	Path        string    `json:"path"`
	Filename    string    `json:"filename"`
	MD5         string    `json:"md5"`
	Rows        int       `json:"rows"`
	ProcessedAt time.Time `json:"processed_at"`
}

// RunMeta summarizes a single pipeline run over one step/detail file pair.
type RunMeta struct {
	RunID      string   `json:"run_id"`
	StepFile   FileMeta `json:"step_file"`
	DetailFile FileMeta `json:"detail_file"`

	TotalSteps int              `json:"total_steps"`
	StepTypes  map[StepType]int `json:"step_types"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`

	NominalCapacity float64  `json:"nominal_capacity,omitempty"`
	SOCMin          *float64 `json:"soc_min,omitempty"`
	SOCMax          *float64 `json:"soc_max,omitempty"`
	CRateMin        *float64 `json:"c_rate_min,omitempty"`
	CRateMax        *float64 `json:"c_rate_max,omitempty"`
	CRateAvg        *float64 `json:"c_rate_avg,omitempty"`
}
