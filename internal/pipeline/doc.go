// Package pipeline orchestrates a full processing run over one cycler
// export pair: input validation, schema-driven parsing, integrity
// checking, derived metrics (C-rate, SOC, OCV, temperature statistics),
// anomaly reporting, and run metadata. Each stage runs inside its own
// trace span so slow files can be attributed to a stage.
package pipeline
