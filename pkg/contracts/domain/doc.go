// Package domain defines the data contracts shared between the ETL core
// and its downstream collaborators (storage, presentation). Records are
// plain structs with JSON tags; the core never mutates a record slice it
// was handed — every stage returns an augmented copy.
package domain
