package errors

import (
	"fmt"
	"strings"
)

// MissingHeaderError aborts extraction: one or more required headers could
// not be matched exactly or semantically. No partial record set is returned.
type MissingHeaderError struct {
	Table   string // "step" or "detail"
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("[%s] %s table is missing required headers: %s",
		ErrTypeSchema, e.Table, strings.Join(e.Missing, ", "))
}

// AmbiguousHeaderWarning is surfaced alongside a successful parse when one
// or more required headers matched only semantically. It usually indicates
// an encoding mismatch in the export, not bad data.
type AmbiguousHeaderWarning struct {
	Table   string
	Matched map[string]string // required header -> header actually found
}

func (e *AmbiguousHeaderWarning) Error() string {
	pairs := make([]string, 0, len(e.Matched))
	for want, got := range e.Matched {
		pairs = append(pairs, fmt.Sprintf("%q~%q", want, got))
	}
	return fmt.Sprintf("[%s] %s table headers matched only semantically (possible encoding mismatch): %s",
		ErrTypeSchema, e.Table, strings.Join(pairs, ", "))
}

// InvalidParameterError rejects a physically meaningless parameter, such
// as a nonpositive nominal capacity.
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("[%s] invalid parameter %s=%v: %s", ErrTypeParameter, e.Param, e.Value, e.Reason)
}

// NoDischargeStepsError fails an SOC calculation that has no discharge
// step to anchor the zero reference.
type NoDischargeStepsError struct{}

func (e *NoDischargeStepsError) Error() string {
	return fmt.Sprintf("[%s] no discharge steps found for SOC calculation", ErrTypeSOC)
}

// ReferenceStepNotFoundError fails an SOC calculation whose caller-supplied
// reference does not resolve to any step.
type ReferenceStepNotFoundError struct {
	Reference int
}

func (e *ReferenceStepNotFoundError) Error() string {
	return fmt.Sprintf("[%s] reference step %d not found", ErrTypeSOC, e.Reference)
}

// WrongStepTypeError fails an SOC calculation whose reference step exists
// but is not a discharge step.
type WrongStepTypeError struct {
	StepNumber int
	Got        string
}

func (e *WrongStepTypeError) Error() string {
	return fmt.Sprintf("[%s] reference step must be a discharge step, but step %d is a %s step",
		ErrTypeSOC, e.StepNumber, e.Got)
}

// MissingColumnError fails a calculation whose input lacks a column it
// cannot proceed without (e.g. total_capacity for coulomb counting).
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("[%s] required column %q has no values", ErrTypeSOC, e.Column)
}

// DanglingReferenceError rejects a detail table whose rows reference step
// numbers absent from the step table. Orphaned measurements are a
// data-integrity error, never silently dropped.
type DanglingReferenceError struct {
	StepNumbers []int
	Rows        int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("[%s] %d measurement rows reference nonexistent steps %v",
		ErrTypeIntegrity, e.Rows, e.StepNumbers)
}
