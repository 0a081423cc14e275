package exporter

import (
	"fmt"
	"time"
)

// timeLayout is the timestamp format used across exported tables.
const timeLayout = "2006-01-02 15:04:05"

// formatFloat formats a float64 value for CSV output with up to 4
// decimal places, trimming trailing zeros so 13.40 stays 13.4.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// formatFloatPtr formats an optional float; nil becomes the empty cell.
func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatTime formats a timestamp; the zero time becomes the empty cell.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// formatTimePtr formats an optional timestamp.
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
