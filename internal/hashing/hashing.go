package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 4096
	keyLength  = 32
)

// Hasher computes the one-way password digest stored on user records.
// The digest is deterministic for a given secret, so two computations of
// the same plaintext are equality-comparable.
type Hasher interface {
	Digest(plaintext string) (string, error)
}

// PBKDF2Hasher derives digests with PBKDF2-HMAC-SHA256 keyed by a
// server-side secret.
type PBKDF2Hasher struct {
	secret []byte
}

// New builds a hasher from the configured secret.
func New(secret string) (*PBKDF2Hasher, error) {
	if secret == "" {
		return nil, errors.New("hash secret is required")
	}
	return &PBKDF2Hasher{secret: []byte(secret)}, nil
}

// Digest returns the hex-encoded digest of plaintext.
func (h *PBKDF2Hasher) Digest(plaintext string) (string, error) {
	if len(h.secret) == 0 {
		return "", errors.New("hasher not initialized")
	}
	key := pbkdf2.Key([]byte(plaintext), h.secret, iterations, keyLength, sha256.New)
	return hex.EncodeToString(key), nil
}
