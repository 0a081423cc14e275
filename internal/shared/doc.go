// Package shared holds cross-cutting helpers that belong to no single
// pipeline stage.
//
//   - testutil: log-capture helpers for asserting on structured output
package shared
