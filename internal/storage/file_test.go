package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if err := store.Create(ctx, CollectionChecks, "abc", []byte(`{"url":"x"}`)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, CollectionChecks, "abc", []byte(`{}`)); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	record, err := store.Read(ctx, CollectionChecks, "abc")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(record) != `{"url":"x"}` {
		t.Fatalf("unexpected record %s", record)
	}

	if err := store.Update(ctx, CollectionChecks, "abc", []byte(`{"url":"y"}`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Update(ctx, CollectionChecks, "missing", []byte(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update absent: expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, CollectionChecks, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Read(ctx, CollectionChecks, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("read after delete: expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreLaysOutCollections(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Create(ctx, CollectionUsers, "5551234567", []byte(`{}`)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, CollectionUsers, "5551234567.json")); err != nil {
		t.Fatalf("expected record file on disk: %v", err)
	}
}

func TestFileStoreRejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Create(ctx, CollectionUsers, "../escape", []byte(`{}`)); err == nil {
		t.Fatal("expected error for key containing a path separator")
	}
}
