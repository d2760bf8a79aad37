package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/mapbuddy/internal/store"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, ok, err := s.Get(ctx, store.SlotCredential); ok || err != nil {
		t.Fatalf("Get() on empty store = ok %v, err %v; want miss", ok, err)
	}

	if err := s.Set(ctx, store.SlotCredential, "sk-test"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(ctx, store.SlotCredential)
	if err != nil || !ok || v != "sk-test" {
		t.Errorf("Get() = %q, %v, %v; want sk-test", v, ok, err)
	}

	if _, ok, _ := s.Get(ctx, store.SlotPreferences); ok {
		t.Error("slots should be independent")
	}

	if err := s.Delete(ctx, store.SlotCredential); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, store.SlotCredential); ok {
		t.Error("Get() after Delete() should miss")
	}
	if err := s.Delete(ctx, store.SlotCredential); err != nil {
		t.Errorf("Delete() on missing slot error = %v", err)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, store.SlotPreferences, "{}")
		}()
		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, store.SlotPreferences)
		}()
	}
	wg.Wait()

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
