// Package ids hands out monotonic ULIDs used as message UUIDs, correlation
// ids and pending load tokens.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewToken returns a fresh ULID. Tokens compare with == and the zero value
// never collides with a generated one.
func NewToken() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// New returns NewToken encoded as a 26-character string.
func New() string {
	return NewToken().String()
}

// Time extracts the creation time embedded in an encoded id.
func Time(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
