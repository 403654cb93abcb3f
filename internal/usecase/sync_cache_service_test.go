package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/courtsync/internal/domain/synccache"
	"github.com/courtdata/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

func TestSyncCacheService_CheckAndUpdate(t *testing.T) {
	t.Parallel()

	svc := NewSyncCacheService(memory.NewSyncCacheRepository(), logging.NewNop())
	ctx := context.Background()
	key := synccache.Key{Source: "winner", ResourceType: "boxscore", ResourceKey: "g1"}

	changed, err := svc.CheckAndUpdate(ctx, key, []byte(`{"points":12}`))
	if err != nil {
		t.Fatalf("CheckAndUpdate error: %v", err)
	}
	if !changed {
		t.Fatalf("first payload must report changed")
	}

	changed, err = svc.CheckAndUpdate(ctx, key, []byte(`{"points":12}`))
	if err != nil {
		t.Fatalf("CheckAndUpdate error: %v", err)
	}
	if changed {
		t.Fatalf("identical payload must report unchanged")
	}

	changed, err = svc.CheckAndUpdate(ctx, key, []byte(`{"points":14}`))
	if err != nil {
		t.Fatalf("CheckAndUpdate error: %v", err)
	}
	if !changed {
		t.Fatalf("different payload must report changed")
	}
}

func TestSyncCacheService_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	svc := NewSyncCacheService(memory.NewSyncCacheRepository(), logging.NewNop())
	ctx := context.Background()
	payload := []byte("same body")

	if _, err := svc.CheckAndUpdate(ctx, synccache.Key{Source: "winner", ResourceType: "pbp", ResourceKey: "g1"}, payload); err != nil {
		t.Fatalf("CheckAndUpdate error: %v", err)
	}
	changed, err := svc.CheckAndUpdate(ctx, synccache.Key{Source: "winner", ResourceType: "pbp", ResourceKey: "g2"}, payload)
	if err != nil {
		t.Fatalf("CheckAndUpdate error: %v", err)
	}
	if !changed {
		t.Fatalf("same payload under a different key must still report changed")
	}
}

func TestSyncCacheService_RejectsIncompleteKey(t *testing.T) {
	t.Parallel()

	svc := NewSyncCacheService(memory.NewSyncCacheRepository(), logging.NewNop())
	_, err := svc.CheckAndUpdate(context.Background(), synccache.Key{Source: "winner"}, []byte("x"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
