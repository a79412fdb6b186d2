package storage

import (
	"context"
	"errors"
)

var (
	// ErrExists occurs when Create is asked to write a key that is already
	// present in the collection.
	ErrExists = errors.New("record already exists")

	// ErrNotFound occurs when Read, Update or Delete reference an absent key.
	ErrNotFound = errors.New("record not found")
)

// Collection names used by the services. Each collection is an independent
// key space.
const (
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
	CollectionChecks = "checks"
)

// Store is the record store contract implemented by the storage backends.
// Every operation is atomic for a single (collection, key) pair; nothing
// spans records, so composite consistency is the callers' problem.
type Store interface {
	// Create writes a new record and fails with ErrExists if the key is taken.
	Create(ctx context.Context, collection, key string, record []byte) error
	// Read returns the record bytes or ErrNotFound.
	Read(ctx context.Context, collection, key string) ([]byte, error)
	// Update overwrites an existing record or fails with ErrNotFound.
	Update(ctx context.Context, collection, key string, record []byte) error
	// Delete removes an existing record or fails with ErrNotFound.
	Delete(ctx context.Context, collection, key string) error
}
