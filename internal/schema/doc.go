// Package schema validates stored documents against CUE definitions.
//
// The definitions in schema.cue are closed: unknown fields, unknown enum
// spellings and status-dependent nulls (a completed game without an outcome)
// are all rejected. The store runs Validate on the full body of every write,
// including the merged result of partial updates.
package schema
