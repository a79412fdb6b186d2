package random

import (
	"strings"
	"testing"
)

func TestIDShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := ID()
		if err != nil {
			t.Fatalf("generate id: %v", err)
		}
		if len(id) != IDLength {
			t.Fatalf("expected length %d, got %d (%s)", IDLength, len(id), id)
		}
		for _, c := range id {
			if !strings.ContainsRune(idAlphabet, c) {
				t.Fatalf("character %q outside alphabet in %s", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestWellFormedID(t *testing.T) {
	id, err := ID()
	if err != nil {
		t.Fatalf("generate id: %v", err)
	}
	if !WellFormedID(id) {
		t.Fatalf("generated id rejected: %s", id)
	}
	for _, bad := range []string{"", "short", strings.Repeat("a", IDLength-1), strings.Repeat("a", IDLength+1), strings.Repeat("A", IDLength), strings.Repeat("a", IDLength-1) + "!"} {
		if WellFormedID(bad) {
			t.Fatalf("accepted malformed id %q", bad)
		}
	}
}
