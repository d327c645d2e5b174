package buffer

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Handle identifies a buffer's presentation counterpart within a Manager.
type Handle string

// NewHandle returns a fresh, time-ordered handle.
func NewHandle() Handle {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return Handle(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}
