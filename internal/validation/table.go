package validation

import (
	"fmt"
	"math"
	"time"

	"cellcli/pkg/contracts/domain"
)

// Table is the column-oriented view the checks operate on. Numeric
// columns use NaN for missing values; a column that would be entirely
// NaN is simply not added, which is how checks detect absent inputs.
type Table struct {
	n           int
	order       []string
	columns     map[string][]float64
	flags       map[string][]bool
	times       []time.Time
	stepTypes   []domain.StepType
	stepNumbers []int
}

// NewTable creates an empty table with n rows.
func NewTable(n int) *Table {
	return &Table{
		n:       n,
		columns: make(map[string][]float64),
		flags:   make(map[string][]bool),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// SetColumn stores a numeric column. len(values) must equal Len.
func (t *Table) SetColumn(name string, values []float64) {
	if len(values) != t.n {
		panic(fmt.Sprintf("column %s has %d values for %d rows", name, len(values), t.n))
	}
	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = values
}

// Column returns a numeric column and whether it exists.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// HasColumn reports whether a numeric column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// ColumnNames returns the numeric column names in insertion order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.order...)
}

// SetFlags stores a boolean annotation column.
func (t *Table) SetFlags(name string, values []bool) {
	if len(values) != t.n {
		panic(fmt.Sprintf("flag column %s has %d values for %d rows", name, len(values), t.n))
	}
	t.flags[name] = values
}

// Flags returns a boolean annotation column and whether it exists.
func (t *Table) Flags(name string) ([]bool, bool) {
	col, ok := t.flags[name]
	return col, ok
}

// SetTimes attaches per-row timestamps for continuity checking.
func (t *Table) SetTimes(times []time.Time) {
	if len(times) != t.n {
		panic(fmt.Sprintf("times has %d values for %d rows", len(times), t.n))
	}
	t.times = times
}

// Times returns the per-row timestamps, or nil when absent.
func (t *Table) Times() []time.Time { return t.times }

// SetStepTypes attaches per-row step-type labels for grouped checks.
func (t *Table) SetStepTypes(types []domain.StepType) {
	if len(types) != t.n {
		panic(fmt.Sprintf("step types has %d values for %d rows", len(types), t.n))
	}
	t.stepTypes = types
}

// StepTypes returns the per-row step-type labels, or nil when absent.
func (t *Table) StepTypes() []domain.StepType { return t.stepTypes }

// SetStepNumbers attaches per-row step numbers. Continuity on detail
// tables needs them because execution_time restarts at every step.
func (t *Table) SetStepNumbers(numbers []int) {
	if len(numbers) != t.n {
		panic(fmt.Sprintf("step numbers has %d values for %d rows", len(numbers), t.n))
	}
	t.stepNumbers = numbers
}

// StepNumbers returns the per-row step numbers, or nil when absent.
func (t *Table) StepNumbers() []int { return t.stepNumbers }

// Copy returns a deep copy. Checks that annotate rows operate on copies
// so callers never observe mutation of their input.
func (t *Table) Copy() *Table {
	out := NewTable(t.n)
	for _, name := range t.order {
		out.SetColumn(name, append([]float64(nil), t.columns[name]...))
	}
	for name, col := range t.flags {
		out.SetFlags(name, append([]bool(nil), col...))
	}
	if t.times != nil {
		out.SetTimes(append([]time.Time(nil), t.times...))
	}
	if t.stepTypes != nil {
		out.SetStepTypes(append([]domain.StepType(nil), t.stepTypes...))
	}
	if t.stepNumbers != nil {
		out.SetStepNumbers(append([]int(nil), t.stepNumbers...))
	}
	return out
}

// TableFromSteps builds the check view of a step table. The soc column
// carries soc_end, the voltage column voltage_end.
func TableFromSteps(steps []domain.StepRecord) *Table {
	t := NewTable(len(steps))

	times := make([]time.Time, len(steps))
	types := make([]domain.StepType, len(steps))
	numbers := make([]int, len(steps))
	for i, s := range steps {
		times[i] = s.StartTime
		types[i] = s.StepType
		numbers[i] = s.StepNumber
	}
	t.SetTimes(times)
	t.SetStepTypes(types)
	t.SetStepNumbers(numbers)

	setOptional(t, "soc", steps, func(s domain.StepRecord) *float64 { return s.SOCEnd })
	setOptional(t, "soc_start", steps, func(s domain.StepRecord) *float64 { return s.SOCStart })
	setOptional(t, "c_rate", steps, func(s domain.StepRecord) *float64 { return s.CRate })
	setOptional(t, "voltage", steps, func(s domain.StepRecord) *float64 { return s.VoltageEnd })
	setOptional(t, "current", steps, func(s domain.StepRecord) *float64 { return s.Current })
	setOptional(t, "capacity", steps, func(s domain.StepRecord) *float64 { return s.Capacity })
	setOptional(t, "total_capacity", steps, func(s domain.StepRecord) *float64 { return s.TotalCapacity })
	setOptional(t, "temperature", steps, func(s domain.StepRecord) *float64 { return s.Temperature })
	return t
}

// TableFromMeasurements builds the check view of a detail table.
// Continuity runs against execution_time, which is always present but
// restarts at zero on each step, so the step numbers go along with it.
func TableFromMeasurements(details []domain.MeasurementRecord) *Table {
	t := NewTable(len(details))

	exec := make([]float64, len(details))
	numbers := make([]int, len(details))
	for i, m := range details {
		exec[i] = m.ExecutionTime
		numbers[i] = m.StepNumber
	}
	t.SetColumn("execution_time", exec)
	t.SetStepNumbers(numbers)

	setOptionalM(t, "voltage", details, func(m domain.MeasurementRecord) *float64 { return m.Voltage })
	setOptionalM(t, "current", details, func(m domain.MeasurementRecord) *float64 { return m.Current })
	setOptionalM(t, "temperature", details, func(m domain.MeasurementRecord) *float64 { return m.Temperature })
	setOptionalM(t, "capacity", details, func(m domain.MeasurementRecord) *float64 { return m.Capacity })
	setOptionalM(t, "energy", details, func(m domain.MeasurementRecord) *float64 { return m.Energy })
	setOptionalM(t, "c_rate", details, func(m domain.MeasurementRecord) *float64 { return m.CRate })
	setOptionalM(t, "soc", details, func(m domain.MeasurementRecord) *float64 { return m.SOC })
	return t
}

func setOptional(t *Table, name string, steps []domain.StepRecord, get func(domain.StepRecord) *float64) {
	col := make([]float64, len(steps))
	any := false
	for i, s := range steps {
		if v := get(s); v != nil {
			col[i] = *v
			any = true
		} else {
			col[i] = math.NaN()
		}
	}
	if any {
		t.SetColumn(name, col)
	}
}

func setOptionalM(t *Table, name string, details []domain.MeasurementRecord, get func(domain.MeasurementRecord) *float64) {
	col := make([]float64, len(details))
	any := false
	for i, m := range details {
		if v := get(m); v != nil {
			col[i] = *v
			any = true
		} else {
			col[i] = math.NaN()
		}
	}
	if any {
		t.SetColumn(name, col)
	}
}
