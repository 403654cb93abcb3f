package memory

import (
	"context"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/synccache"
)

type SyncCacheRepository struct {
	mu      sync.RWMutex
	entries map[synccache.Key]synccache.Entry
}

func NewSyncCacheRepository() *SyncCacheRepository {
	return &SyncCacheRepository{entries: make(map[synccache.Key]synccache.Entry)}
}

func (r *SyncCacheRepository) Get(_ context.Context, key synccache.Key) (synccache.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	return entry, ok, nil
}

func (r *SyncCacheRepository) Put(_ context.Context, entry synccache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[synccache.Key{
		Source:       entry.Source,
		ResourceType: entry.ResourceType,
		ResourceKey:  entry.ResourceKey,
	}] = entry
	return nil
}
