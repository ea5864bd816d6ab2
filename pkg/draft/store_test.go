package draft

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "form-data-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "form-data-a", []byte(`{"x":"1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "form-data-a", []byte(`{"x":"2"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "form-data-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"x":"2"}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if err := store.Delete(ctx, "form-data-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "form-data-a"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := store.Get(ctx, "form-data-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	exerciseStore(t, store)

	ctx := context.Background()
	if err := store.Set(ctx, "session/1:form-data-a", []byte("{}")); err != nil {
		t.Fatalf("keys with separators should be escaped: %v", err)
	}
	if _, err := store.Get(ctx, "session/1:form-data-a"); err != nil {
		t.Fatalf("get escaped key: %v", err)
	}
}

func TestFileStore_RequiresDirectory(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatalf("expected error for blank directory")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestNewSQLStore_RejectsBadTable(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if _, err := NewSQLStore(context.Background(), store.db, DialectSQLite, "drafts; DROP TABLE x"); err == nil {
		t.Fatalf("expected invalid table name error")
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	if got := DialectPostgres.Placeholder(3); got != "$3" {
		t.Fatalf("unexpected placeholder %q", got)
	}
	if got := DialectSQLite.Placeholder(3); got != "?" {
		t.Fatalf("unexpected placeholder %q", got)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FORMFLOW_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FORMFLOW_POSTGRES_DSN not set")
	}
	store, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FORMFLOW_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORMFLOW_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(client, "formflow:test:", time.Minute)
	defer store.Close()
	exerciseStore(t, store)
}
