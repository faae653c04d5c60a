package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSQLiteSetGetDelete(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, KeyProgress); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, KeyProgress, `{"level":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwrite must replace, not duplicate.
	if err := store.Set(ctx, KeyProgress, `{"level":2}`); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, ok, err := store.Get(ctx, KeyProgress)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != `{"level":2}` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := store.Delete(ctx, KeyProgress); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, KeyProgress); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestSQLiteValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, KeyDarkMode, "true"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	got, ok, err := reopened.Get(ctx, KeyDarkMode)
	if err != nil || !ok || got != "true" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteClosedStoreReportsStorageError(t *testing.T) {
	store := newTestSQLite(t)
	_ = store.Close()
	err := store.Set(context.Background(), KeyProgress, "{}")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestJSONHelpersRoundTrip(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()
	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	var out record
	ok, err := GetJSON(ctx, kv, "r", &out)
	if err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := SetJSON(ctx, kv, "r", record{Name: "a", Count: 2}); err != nil {
		t.Fatal(err)
	}
	ok, err = GetJSON(ctx, kv, "r", &out)
	if err != nil || !ok {
		t.Fatalf("get json: ok=%v err=%v", ok, err)
	}
	if out != (record{Name: "a", Count: 2}) {
		t.Fatalf("unexpected record %+v", out)
	}
	if err := kv.Set(ctx, "bad", "{"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetJSON(ctx, kv, "bad", &out); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMemoryClosedStoreReportsStorageError(t *testing.T) {
	kv := NewMemory()
	_ = kv.Close()
	if _, _, err := kv.Get(context.Background(), "x"); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestRedisSetGet(t *testing.T) {
	addr := os.Getenv("WEBDOJO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WEBDOJO_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	kv, err := NewRedis(ctx, RedisOptions{Addr: addr, Prefix: "webdojo-test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = kv.Close() }()
	if err := kv.Set(ctx, KeyDarkMode, "false"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := kv.Get(ctx, KeyDarkMode)
	if err != nil || !ok || got != "false" {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}
	if err := kv.Delete(ctx, KeyDarkMode); err != nil {
		t.Fatal(err)
	}
}
