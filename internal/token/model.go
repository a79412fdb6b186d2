package token

import "time"

// Token is an opaque bearer credential bound to one owning identity.
// The binding never changes after issuance; only Expires moves.
type Token struct {
	ID       string    `json:"id"`
	Identity string    `json:"identity"`
	Expires  time.Time `json:"expires"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t Token) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}
