package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/allease/allease-core/internal/db"
)

func TestMemoryStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Read(ctx, "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("expected missing key to report absent")
	}

	if errWrite := store.Write(ctx, "doc", []byte(`{"a":1}`)); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}
	data, ok, err := store.Read(ctx, "doc")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to be present")
	}
	if string(data) != `{"a":1}` {
		t.Fatalf("expected payload=%q, got %q", `{"a":1}`, string(data))
	}

	// Mutating the returned slice must not affect the stored copy.
	data[0] = 'X'
	again, _, _ := store.Read(ctx, "doc")
	if string(again) != `{"a":1}` {
		t.Fatalf("stored payload mutated: %q", string(again))
	}
}

func TestGormStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	store := NewGormStore(conn)

	_, ok, err := store.Read(ctx, "vault")
	if err != nil {
		t.Fatalf("read absent: %v", err)
	}
	if ok {
		t.Fatalf("expected absent key")
	}

	if errWrite := store.Write(ctx, "vault", []byte(`{"users":{}}`)); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}
	if errWrite := store.Write(ctx, "vault", []byte(`{"users":{"a@b.c":{}}}`)); errWrite != nil {
		t.Fatalf("overwrite: %v", errWrite)
	}

	data, ok, err := store.Read(ctx, "vault")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to be present")
	}
	if string(data) != `{"users":{"a@b.c":{}}}` {
		t.Fatalf("expected last write to win, got %q", string(data))
	}
}

func TestGormStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(filepath.Join(t.TempDir(), "storage.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	store := NewGormStore(conn)
	if errWrite := store.Write(ctx, "  ", []byte("{}")); errWrite == nil {
		t.Fatalf("expected error for blank key")
	}
	if _, _, errRead := store.Read(ctx, ""); errRead == nil {
		t.Fatalf("expected error for empty key")
	}
}
