package validation

import "strings"

// Severity grades an issue for downstream consumers.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SeverityRule maps issues to a severity when the issue text contains
// every substring in Contains. Rules are evaluated in order; the first
// match wins.
type SeverityRule struct {
	Contains []string
	Severity Severity
}

// DefaultSeverityRules grades the issue messages the built-in checks
// emit. Large time gaps outrank ordinary gaps, so the 60-second rule
// comes first.
func DefaultSeverityRules() []SeverityRule {
	return []SeverityRule{
		{Contains: []string{"column not found"}, Severity: SeverityInfo},
		{Contains: []string{"negative C-rate"}, Severity: SeverityCritical},
		{Contains: []string{"SOC below"}, Severity: SeverityCritical},
		{Contains: []string{"SOC above"}, Severity: SeverityCritical},
		{Contains: []string{"time gaps exceeding 60"}, Severity: SeverityCritical},
		{Contains: []string{"time gaps"}, Severity: SeverityWarning},
		{Contains: []string{"anomalies"}, Severity: SeverityWarning},
	}
}

// ClassifySeverity grades one issue against the rule list. Issues no
// rule matches default to warning.
func ClassifySeverity(issue string, rules []SeverityRule) Severity {
	for _, rule := range rules {
		matched := true
		for _, sub := range rule.Contains {
			if !strings.Contains(issue, sub) {
				matched = false
				break
			}
		}
		if matched {
			return rule.Severity
		}
	}
	return SeverityWarning
}
