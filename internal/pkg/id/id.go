package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID. Reconciliation passes use it as a run identifier so log lines
// from concurrent passes sort by start time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
