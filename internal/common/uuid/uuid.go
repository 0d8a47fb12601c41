// Package uuid generates the time-ordered identifiers used to correlate log lines.
// It wraps github.com/google/uuid with version 7 as the default.
package uuid

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// UUID is aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// New returns a new UUIDv7, falling back to a random v4 if the clock source fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Timestamp extracts the creation time from the top 48 bits of a UUIDv7.
func Timestamp(id UUID) time.Time {
	ms := binary.BigEndian.Uint64(id[0:8]) >> 16
	return time.UnixMilli(int64(ms))
}
