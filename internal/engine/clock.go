package engine

import "time"

// Clock supplies the wall-clock timestamps written to documents.
//
// Timestamps are informational only; ordering and idempotency never depend
// on them.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

