// Package validation implements the anomaly and plausibility engine for
// normalized cycler data: range, continuity and jump checks, rolling
// z-score voltage anomaly detection, capacity anomaly detection, and a
// report generator that classifies every issue by severity.
//
// Checks are independent and composable. None of them returns an error:
// a check whose input column is absent degrades to an informational
// issue, so GenerateReport always yields a structured, inspectable
// outcome. Fatal failures belong to extraction and SOC calculation, not
// here.
package validation
