package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/storage"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{ChatID: 42, CurrentChain: domain.ChainSolana, AwaitingAddress: true}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CurrentChain != domain.ChainSolana {
		t.Errorf("CurrentChain mismatch: got %s, want %s", got.CurrentChain, domain.ChainSolana)
	}
	if !got.AwaitingAddress {
		t.Error("AwaitingAddress should be true")
	}
	if got.UpdatedAt == 0 {
		t.Error("UpdatedAt should be set by the store")
	}
}

func TestSessionStore_GetNotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_SaveUpserts(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.Save(ctx, &domain.Session{ChatID: 7, CurrentChain: domain.ChainEthereum}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, &domain.Session{ChatID: 7, CurrentChain: domain.ChainBase}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CurrentChain != domain.ChainBase {
		t.Errorf("expected base after upsert, got %s", got.CurrentChain)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

func TestSessionStore_InvalidInput(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.Save(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil session: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Save(ctx, &domain.Session{ChatID: 1, CurrentChain: "btc"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("bad chain: expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionStore_Isolation(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{ChatID: 3, CurrentChain: domain.ChainBSC}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	sess.CurrentChain = domain.ChainFantom
	got, _ := store.Get(ctx, 3)
	if got.CurrentChain != domain.ChainBSC {
		t.Errorf("stored session mutated through caller pointer: %s", got.CurrentChain)
	}

	got.AwaitingAddress = true
	again, _ := store.Get(ctx, 3)
	if again.AwaitingAddress {
		t.Error("stored session mutated through returned pointer")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	store.Save(ctx, domain.NewSession(9))
	if err := store.Delete(ctx, 9); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, 9); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, 9); err != nil {
		t.Errorf("deleting a missing session should succeed, got %v", err)
	}
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Save(ctx, domain.NewSession(id))
			store.Get(ctx, id)
		}(int64(i))
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("expected 50 sessions, got %d", store.Len())
	}
}

func TestLoadOrNew(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	fresh, err := storage.LoadOrNew(ctx, store, 11)
	if err != nil {
		t.Fatalf("LoadOrNew failed: %v", err)
	}
	if fresh.CurrentChain != domain.DefaultChain {
		t.Errorf("expected default chain, got %s", fresh.CurrentChain)
	}

	store.Save(ctx, &domain.Session{ChatID: 11, CurrentChain: domain.ChainCronos})
	loaded, err := storage.LoadOrNew(ctx, store, 11)
	if err != nil {
		t.Fatalf("LoadOrNew failed: %v", err)
	}
	if loaded.CurrentChain != domain.ChainCronos {
		t.Errorf("expected cro, got %s", loaded.CurrentChain)
	}
}
