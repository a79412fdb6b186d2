package random

import (
	"crypto/rand"
	"fmt"
)

// idAlphabet spans 36 symbols; at 20 characters an id carries a little over
// 103 bits of entropy, enough to make collisions negligible without a
// uniqueness scan.
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// IDLength is the length of every generated token and check identifier.
const IDLength = 20

// ID returns a fresh high-entropy identifier drawn from idAlphabet.
func ID() (string, error) {
	out := make([]byte, IDLength)
	// Rejection sampling keeps the distribution uniform: 252 is the largest
	// multiple of 36 below 256.
	buf := make([]byte, 1)
	for i := 0; i < IDLength; {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		if buf[0] >= 252 {
			continue
		}
		out[i] = idAlphabet[int(buf[0])%len(idAlphabet)]
		i++
	}
	return string(out), nil
}

// WellFormedID reports whether s has the shape of a generated identifier.
// It is a cheap gate used to reject garbage before touching storage.
func WellFormedID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
