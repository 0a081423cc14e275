package dataprocessing

import (
	"cellcli/pkg/contracts/domain"
)

// HeaderDict describes how one source table maps onto the canonical
// schema: which source headers must be present, how source headers rename
// to canonical fields, and which keyword substrings identify a required
// header when the exact string is mangled by encoding.
type HeaderDict struct {
	Table    string
	Required []string
	// Rename maps source headers to canonical field names. Columns whose
	// header is not in the map are dropped during normalization.
	Rename map[string]string
	// Keywords maps each required source header to lowercase substrings
	// that identify it semantically in any language.
	Keywords map[string][]string
}

// Canonical returns the canonical field name for a required source header.
func (d HeaderDict) Canonical(sourceHeader string) string {
	return d.Rename[sourceHeader]
}

// StepTypeDict maps vendor step-type labels (any language or abbreviation)
// to the canonical step types. Unmapped labels classify as unknown.
type StepTypeDict map[string]domain.StepType

// Classify returns the canonical step type for a vendor label.
func (d StepTypeDict) Classify(label string) domain.StepType {
	if t, ok := d[label]; ok {
		return t
	}
	return domain.StepTypeUnknown
}

// DefaultStepDict matches the ChromaLex per-step summary export.
func DefaultStepDict() HeaderDict {
	return HeaderDict{
		Table: "step",
		Required: []string{
			"工步",          // step number
			"工步種類",        // step type
			"日期時間",        // start time
			"工步執行時間(秒)",   // duration
			"截止電壓(V)",     // ending voltage
			"能量(Wh)",      // energy
			"截止電量(Ah)",    // step capacity
			"總電量(Ah)",     // cumulative capacity
			"功率(W)",       // power
			"Aux T1",      // temperature probe
		},
		Rename: map[string]string{
			"工步":        "step_number",
			"工步種類":      "step_type",
			"日期時間":      "start_time",
			"工步執行時間(秒)": "duration",
			"截止電壓(V)":   "voltage_end",
			"截止電流(A)":   "current",
			"能量(Wh)":    "energy",
			"截止電量(Ah)":  "capacity",
			"總電量(Ah)":   "total_capacity",
			"功率(W)":     "power",
			"Aux T1":    "temperature",
		},
		Keywords: map[string][]string{
			"工步":        {"工步", "step", "index"},
			"工步種類":      {"種類", "type", "mode"},
			"日期時間":      {"時間", "date", "time", "start"},
			"工步執行時間(秒)": {"執行", "duration", "秒", "sec"},
			"截止電壓(V)":   {"電壓", "volt"},
			"能量(Wh)":    {"能量", "energy", "wh"},
			"截止電量(Ah)":  {"截止電量", "capacity", "ah"},
			"總電量(Ah)":   {"總電量", "total", "cumulative"},
			"功率(W)":     {"功率", "power", "watt"},
			"Aux T1":    {"aux", "temp", "溫"},
		},
	}
}

// DefaultDetailDict matches the ChromaLex per-measurement detail export.
func DefaultDetailDict() HeaderDict {
	return HeaderDict{
		Table: "detail",
		Required: []string{
			"工步",
			"執行時間(秒)",
			"工步執行時間(秒)",
			"電壓(V)",
			"電流(A)",
			"Aux T1",
			"電量(Ah)",
			"能量(Wh)",
		},
		Rename: map[string]string{
			"工步":        "step_number",
			"執行時間(秒)":   "execution_time_alt",
			"工步執行時間(秒)": "execution_time",
			"電壓(V)":     "voltage",
			"電流(A)":     "current",
			"Aux T1":    "temperature",
			"電量(Ah)":    "capacity",
			"能量(Wh)":    "energy",
		},
		Keywords: map[string][]string{
			"工步":        {"工步", "step", "index"},
			"執行時間(秒)":   {"執行時間", "elapsed", "total time"},
			"工步執行時間(秒)": {"工步執行", "execution", "step time"},
			"電壓(V)":     {"電壓", "volt"},
			"電流(A)":     {"電流", "current", "amp"},
			"Aux T1":    {"aux", "temp", "溫"},
			"電量(Ah)":    {"電量", "capacity", "ah"},
			"能量(Wh)":    {"能量", "energy", "wh"},
		},
	}
}

// DefaultStepTypes covers the ChromaLex vendor labels seen across English
// and Chinese exports.
func DefaultStepTypes() StepTypeDict {
	return StepTypeDict{
		// English labels
		"CC_Chg":    domain.StepTypeCharge,
		"CC_DChg":   domain.StepTypeDischarge,
		"CCCV_Chg":  domain.StepTypeCharge,
		"Rest":      domain.StepTypeRest,
		"Pause":     domain.StepTypeRest,
		"charge":    domain.StepTypeCharge,
		"discharge": domain.StepTypeDischarge,
		"rest":      domain.StepTypeRest,
		// Chinese labels
		"CC-CV充電": domain.StepTypeCharge,
		"CC充電":    domain.StepTypeCharge,
		"CC放電":    domain.StepTypeDischarge,
		"靜置":      domain.StepTypeRest,
		"溫箱控制":    domain.StepTypeRest,
		"CP充電":    domain.StepTypeCharge,
		"CP放電":    domain.StepTypeDischarge,
		"超級CP充電":  domain.StepTypeCharge,
		"超級CP放電":  domain.StepTypeDischarge,
		"電流波形":    domain.StepTypeWaveform,
		"功率波形":    domain.StepTypeWaveform,
	}
}
