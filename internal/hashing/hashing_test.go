package hashing

import "testing"

func TestDigestDeterministic(t *testing.T) {
	hasher, err := New("unit-test-secret")
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	first, err := hasher.Digest("hunter2")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	second, err := hasher.Digest("hunter2")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if first != second {
		t.Fatalf("digest not deterministic: %s vs %s", first, second)
	}

	other, err := hasher.Digest("hunter3")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if other == first {
		t.Fatal("different plaintexts produced the same digest")
	}
}

func TestDigestDependsOnSecret(t *testing.T) {
	a, err := New("secret-a")
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	b, err := New("secret-b")
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	da, _ := a.Digest("same")
	db, _ := b.Digest("same")
	if da == db {
		t.Fatal("digests should differ across secrets")
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
