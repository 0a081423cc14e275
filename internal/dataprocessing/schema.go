package dataprocessing

import (
	"strings"

	cellerrors "cellcli/internal/errors"
)

// SchemaResult is the outcome of matching a table's headers against a
// dictionary.
type SchemaResult struct {
	OK      bool
	Missing []string // required headers with neither exact nor semantic match
	Found   []string // all headers present in the table
	// SemanticOnly maps required headers that missed exactly but hit
	// semantically to the header that was actually found.
	SemanticOnly map[string]string
}

// Warning returns the non-fatal AmbiguousHeaderWarning for semantic-only
// matches, or nil when every required header matched exactly.
func (r SchemaResult) Warning(table string) *cellerrors.AmbiguousHeaderWarning {
	if len(r.SemanticOnly) == 0 {
		return nil
	}
	matched := make(map[string]string, len(r.SemanticOnly))
	for k, v := range r.SemanticOnly {
		matched[k] = v
	}
	return &cellerrors.AmbiguousHeaderWarning{Table: table, Matched: matched}
}

// ValidateSchema matches headers against the dictionary in two passes:
// exact string match, then a keyword scan for anything still missing.
// A header set is accepted when every required header has one or the other.
func ValidateSchema(headers []string, dict HeaderDict) SchemaResult {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	res := SchemaResult{
		Found:        append([]string(nil), headers...),
		SemanticOnly: make(map[string]string),
	}

	for _, required := range dict.Required {
		if present[required] {
			continue
		}
		if match, ok := semanticMatch(headers, dict.Keywords[required]); ok {
			res.SemanticOnly[required] = match
			continue
		}
		res.Missing = append(res.Missing, required)
	}

	res.OK = len(res.Missing) == 0
	return res
}

// ValidateSchemaFile reads only the header row of a table file and
// validates it. Read failures report every required header as missing.
func ValidateSchemaFile(path string, dict HeaderDict) (SchemaResult, error) {
	headers, _, err := readRawTable(path)
	if err != nil {
		return SchemaResult{
			Missing: append([]string(nil), dict.Required...),
		}, err
	}
	return ValidateSchema(headers, dict), nil
}

// semanticMatch scans headers for the first one containing any keyword.
// Keyword comparison is case-insensitive; CJK substrings match verbatim.
func semanticMatch(headers, keywords []string) (string, bool) {
	for _, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return h, true
			}
		}
	}
	return "", false
}
