// Package uid generates identifiers: UUID strings for correlation and event
// IDs, snowflake numbers for database primary keys.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates positive, roughly time-ordered integer identifiers.
type NumberID interface {
	Generate() int64
}
