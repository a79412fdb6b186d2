package storage

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedis(client)
}

func TestRedisStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)

	if err := store.Create(ctx, CollectionTokens, "tok1", []byte(`{"id":"tok1"}`)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, CollectionTokens, "tok1", []byte(`{}`)); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	record, err := store.Read(ctx, CollectionTokens, "tok1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(record) != `{"id":"tok1"}` {
		t.Fatalf("unexpected record %s", record)
	}

	if err := store.Update(ctx, CollectionTokens, "tok1", []byte(`{"id":"tok1","x":1}`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Update(ctx, CollectionTokens, "absent", []byte(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update absent: expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, CollectionTokens, "tok1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, CollectionTokens, "tok1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}
