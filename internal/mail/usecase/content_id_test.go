package usecase

import "testing"

func TestContentIDDeterministic(t *testing.T) {
	a := ContentID("hello world")
	b := ContentID("hello world")
	if a != b {
		t.Fatalf("same content produced different ids: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestContentIDDistinct(t *testing.T) {
	if ContentID("hello world") == ContentID("hello world!") {
		t.Fatal("different content produced the same id")
	}
}

func TestContentIDEmpty(t *testing.T) {
	if id := ContentID(""); id != "" {
		t.Fatalf("empty text should produce empty id, got %q", id)
	}
}
