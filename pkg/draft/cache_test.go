package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCache_Key(t *testing.T) {
	cache := New(nil)
	if got := cache.Key("membership-application"); got != "form-data-membership-application" {
		t.Fatalf("unexpected key %q", got)
	}
	scoped := cache.Scoped("session-1")
	if got := scoped.Key("contact"); got != "session-1:form-data-contact" {
		t.Fatalf("unexpected scoped key %q", got)
	}
}

func TestCache_RoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	cache := New(NewMemoryStore())

	if _, ok := cache.Load(ctx, "contact"); ok {
		t.Fatalf("expected miss on empty store")
	}

	want := map[string]string{"name": "Ada", "email": "ada@example.com"}
	if err := cache.Save(ctx, "contact", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := cache.Save(ctx, "contact", map[string]string{"name": "Grace"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok := cache.Load(ctx, "contact")
	if !ok {
		t.Fatalf("expected hit")
	}
	if diff := cmp.Diff(map[string]string{"name": "Grace"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := cache.Clear(ctx, "contact"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := cache.Load(ctx, "contact"); ok {
		t.Fatalf("expected miss after clear")
	}
	if err := cache.Clear(ctx, "contact"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestCache_CorruptPayloadIsAMissAndLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewMemoryStore()
	cache := New(store, WithLogger(zap.New(core)))

	for _, payload := range []string{"{not json", "null", `["a"]`, `{"nested":{"a":1}}`} {
		if err := store.Set(ctx, cache.Key("contact"), []byte(payload)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if values, ok := cache.Load(ctx, "contact"); ok {
			t.Fatalf("payload %q should be treated as absent, got %v", payload, values)
		}
	}
	if n := logs.FilterMessage("failed to restore form data").Len(); n != 4 {
		t.Fatalf("expected 4 warnings, got %d", n)
	}
}

func TestCache_CoercesScalars(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cache := New(store)
	_ = store.Set(ctx, cache.Key("app"), []byte(`{"gpa":3.5,"agree":true,"name":"Ada","empty":null}`))

	got, ok := cache.Load(ctx, "app")
	if !ok {
		t.Fatalf("expected hit")
	}
	want := map[string]string{"gpa": "3.5", "agree": "true", "name": "Ada", "empty": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("coercion mismatch (-want +got):\n%s", diff)
	}
}

type failingStore struct{ err error }

func (s failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.err }
func (s failingStore) Set(context.Context, string, []byte) error   { return s.err }
func (s failingStore) Delete(context.Context, string) error        { return s.err }

func TestCache_StoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	core, logs := observer.New(zapcore.WarnLevel)
	cache := New(failingStore{err: boom}, WithLogger(zap.New(core)))

	if _, ok := cache.Load(ctx, "x"); ok {
		t.Fatalf("expected miss")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected load failure to be logged")
	}
	if err := cache.Save(ctx, "x", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if err := cache.Clear(ctx, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped clear error, got %v", err)
	}
}
