// Package authz holds the shared authorization policy applied before any
// owner-scoped operation: a bearer token must be live and bound to the
// owner being acted on. The policy lives behind its own type so it can
// grow (roles, scopes) without touching the call sites.
package authz

import "context"

// Verifier answers whether a token is currently valid for an owner. It is
// implemented by the token authority.
type Verifier interface {
	Verify(ctx context.Context, tokenID, owner string) bool
}

// Gate is the stateless policy wrapper consumed by the user and check
// services.
type Gate struct {
	tokens Verifier
}

// NewGate builds a gate over the given verifier.
func NewGate(tokens Verifier) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize reports whether tokenID is live and bound to requiredOwner.
// It never returns an error; any doubt reads as a refusal.
func (g *Gate) Authorize(ctx context.Context, tokenID, requiredOwner string) bool {
	return g.tokens.Verify(ctx, tokenID, requiredOwner)
}
