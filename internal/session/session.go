// Package session generates the anonymous shopping identity used as the key
// for every cart and order lookup.
package session

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix    = "user-"
	idDigits  = 9
	shortSize = 8
)

// Session is the identity of one storefront run. It is created once at start
// up and passed explicitly to every component; it is never persisted.
type Session struct {
	ID        string
	StartedAt time.Time
}

// New returns a session with a fresh random identity.
func New() Session {
	return Session{
		ID:        newID(uuid.New()),
		StartedAt: time.Now(),
	}
}

// Short returns the abbreviated identity shown in the status line.
func (s Session) Short() string {
	if len(s.ID) <= shortSize {
		return s.ID
	}
	return s.ID[:shortSize] + "..."
}

// newID renders the low idDigits base-36 digits of the random value.
func newID(u uuid.UUID) string {
	v := binary.BigEndian.Uint64(u[:8])
	digits := strconv.FormatUint(v, 36)
	if len(digits) > idDigits {
		digits = digits[len(digits)-idDigits:]
	}
	return prefix + strings.Repeat("0", idDigits-len(digits)) + digits
}
