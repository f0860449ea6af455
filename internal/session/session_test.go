package session

import "testing"

func TestStore_IndependentPartitions(t *testing.T) {
	store := NewStore()

	store.SetCurrent("tab-1", "Alice@Example.com ")
	store.SetCurrent("tab-2", "bob@example.com")

	email, ok := store.Current("tab-1")
	if !ok || email != "alice@example.com" {
		t.Fatalf("expected tab-1 active as alice@example.com, got %q ok=%v", email, ok)
	}
	email, ok = store.Current("tab-2")
	if !ok || email != "bob@example.com" {
		t.Fatalf("expected tab-2 active as bob@example.com, got %q ok=%v", email, ok)
	}

	store.Clear("tab-1")
	if _, ok := store.Current("tab-1"); ok {
		t.Fatalf("expected tab-1 cleared")
	}
	if _, ok := store.Current("tab-2"); !ok {
		t.Fatalf("expected tab-2 unaffected by clearing tab-1")
	}
}

func TestStore_EmptyPartition(t *testing.T) {
	store := NewStore()

	store.SetCurrent("", "alice@example.com")
	if _, ok := store.Current(""); ok {
		t.Fatalf("expected blank partition to hold no session")
	}
	if _, ok := store.Current("  "); ok {
		t.Fatalf("expected whitespace partition to hold no session")
	}
}

func TestStore_Overwrite(t *testing.T) {
	store := NewStore()

	store.SetCurrent("tab-1", "alice@example.com")
	store.SetCurrent("tab-1", "bob@example.com")

	email, ok := store.Current("tab-1")
	if !ok || email != "bob@example.com" {
		t.Fatalf("expected latest identity to win, got %q ok=%v", email, ok)
	}
}
