package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Create(ctx, CollectionUsers, "k1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, CollectionUsers, "k1", []byte(`{"a":2}`)); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	record, err := store.Read(ctx, CollectionUsers, "k1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(record) != `{"a":1}` {
		t.Fatalf("unexpected record %s", record)
	}

	if err := store.Update(ctx, CollectionUsers, "k1", []byte(`{"a":3}`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	record, _ = store.Read(ctx, CollectionUsers, "k1")
	if string(record) != `{"a":3}` {
		t.Fatalf("update not applied, got %s", record)
	}

	if err := store.Delete(ctx, CollectionUsers, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Read(ctx, CollectionUsers, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreMissingKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Update(ctx, CollectionChecks, "nope", []byte(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update absent: expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, CollectionChecks, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete absent: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Create(ctx, CollectionUsers, "same", []byte(`u`)); err != nil {
		t.Fatalf("create users: %v", err)
	}
	if err := store.Create(ctx, CollectionTokens, "same", []byte(`t`)); err != nil {
		t.Fatalf("create tokens with same key: %v", err)
	}
	record, err := store.Read(ctx, CollectionTokens, "same")
	if err != nil {
		t.Fatalf("read tokens: %v", err)
	}
	if string(record) != "t" {
		t.Fatalf("collections bled into each other: %s", record)
	}
}
