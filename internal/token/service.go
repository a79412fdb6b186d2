package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pulsewatch/pulsewatch/internal/errs"
	"github.com/pulsewatch/pulsewatch/internal/hashing"
	"github.com/pulsewatch/pulsewatch/internal/random"
	"github.com/pulsewatch/pulsewatch/internal/storage"
)

// CredentialSource resolves an identity to its stored password digest.
// Implemented by the user directory; kept as an interface so the token
// package stays free of user internals.
type CredentialSource interface {
	DigestOf(ctx context.Context, identity string) (string, error)
}

// Authority issues, reads, extends, revokes and verifies bearer tokens.
type Authority struct {
	store  storage.Store
	creds  CredentialSource
	hasher hashing.Hasher
	ttl    time.Duration
}

// NewAuthority builds a token authority. Every issued or extended token
// lives for ttl from the moment of the call.
func NewAuthority(store storage.Store, creds CredentialSource, hasher hashing.Hasher, ttl time.Duration) *Authority {
	return &Authority{store: store, creds: creds, hasher: hasher, ttl: ttl}
}

// Issue validates the presented password against the identity's stored
// digest and, on success, persists and returns a fresh token.
func (a *Authority) Issue(ctx context.Context, identity, password string) (Token, error) {
	if identity == "" {
		return Token{}, errs.Validation("identity", "is required")
	}
	if password == "" {
		return Token{}, errs.Validation("password", "is required")
	}

	stored, err := a.creds.DigestOf(ctx, identity)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Token{}, errs.ErrOwnerNotFound
		}
		return Token{}, err
	}

	presented, err := a.hasher.Digest(password)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", errs.ErrHashing, err)
	}
	if presented != stored {
		return Token{}, errs.ErrInvalidCredentials
	}

	id, err := random.ID()
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	tok := Token{ID: id, Identity: identity, Expires: time.Now().Add(a.ttl)}
	if err := a.persist(ctx, tok, true); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// Fetch returns the token record by id, expired or not. Expiry is a
// concern of Verify; Fetch exposes the raw record.
func (a *Authority) Fetch(ctx context.Context, id string) (Token, error) {
	return a.load(ctx, id)
}

// Extend pushes the expiry of a live token another ttl into the future.
// A token that already expired cannot be revived; it must be reissued.
func (a *Authority) Extend(ctx context.Context, id string) error {
	tok, err := a.load(ctx, id)
	if err != nil {
		return err
	}
	if tok.Expired(time.Now()) {
		return errs.ErrAlreadyExpired
	}
	tok.Expires = time.Now().Add(a.ttl)
	return a.persist(ctx, tok, false)
}

// Revoke deletes the token record.
func (a *Authority) Revoke(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, storage.CollectionTokens, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}

// Verify reports whether id names a live token bound to owner. It is the
// single authorization primitive and never returns an error: lookup
// failures, malformed ids and expired tokens all read as false. Malformed
// ids are rejected before any storage round trip.
func (a *Authority) Verify(ctx context.Context, id, owner string) bool {
	if owner == "" || !random.WellFormedID(id) {
		return false
	}
	tok, err := a.load(ctx, id)
	if err != nil {
		return false
	}
	return tok.Identity == owner && !tok.Expired(time.Now())
}

func (a *Authority) load(ctx context.Context, id string) (Token, error) {
	record, err := a.store.Read(ctx, storage.CollectionTokens, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Token{}, errs.ErrNotFound
		}
		return Token{}, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	var tok Token
	if err := json.Unmarshal(record, &tok); err != nil {
		return Token{}, fmt.Errorf("%w: decode token %s: %v", errs.ErrStorage, id, err)
	}
	return tok, nil
}

func (a *Authority) persist(ctx context.Context, tok Token, create bool) error {
	record, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("%w: encode token: %v", errs.ErrStorage, err)
	}
	if create {
		err = a.store.Create(ctx, storage.CollectionTokens, tok.ID, record)
	} else {
		err = a.store.Update(ctx, storage.CollectionTokens, tok.ID, record)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return nil
}
