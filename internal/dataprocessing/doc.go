// Package dataprocessing implements the schema extractor and normalizer
// for paired battery cycler exports (per-step summary and per-measurement
// detail tables).
//
// Cycler vendors ship these tables with localized, inconsistently encoded
// column names. Header matching therefore runs in two passes: exact match
// against the vendor dictionary, then a semantic fallback that scans the
// present headers for language-agnostic keywords. Semantic-only matches
// succeed but are surfaced as an AmbiguousHeaderWarning, since they
// usually mean the file was re-encoded somewhere along the way.
//
// All lookup dictionaries are injected, read-only values; tests can swap
// in alternates without touching package state.
package dataprocessing
