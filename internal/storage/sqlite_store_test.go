package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pomo-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSQLiteSetGetOverwriteRemove(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	first := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return first }

	if err := store.Set(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("unexpected value: %q", got)
	}

	second := first.Add(time.Minute)
	store.now = func() time.Time { return second }
	if err := store.Set(ctx, "tasks", `[{"id":"a"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got != `[{"id":"a"}]` {
		t.Fatalf("unexpected overwritten value: %q", got)
	}
	updated, err := store.UpdatedAt(ctx, "tasks")
	if err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if !updated.Equal(second) {
		t.Fatalf("expected updated_at %s, got %s", second, updated)
	}

	if err := store.Remove(ctx, "tasks"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "tasks"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := store.Remove(ctx, "tasks"); err != nil {
		t.Fatalf("second remove should be a no-op, got: %v", err)
	}
}

func TestOpenSQLiteCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pomo.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.Set(t.Context(), "chat-draft", "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := GetString(t.Context(), store, "chat-draft", ""); got != "hello" {
		t.Fatalf("unexpected draft: %q", got)
	}
}
