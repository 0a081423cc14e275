// Package metrics derives battery-health metrics from normalized cycler
// records: C-rate, state of charge via coulomb counting, open-circuit
// voltage, and per-step temperature statistics.
//
// Every function returns a new record slice; caller-owned input is never
// mutated. SOC propagation is a single chronological forward pass and must
// stay that way — the accumulation is order-dependent. Independent runs
// can execute concurrently; nothing here shares state.
package metrics
