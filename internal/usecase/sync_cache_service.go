package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/courtdata/courtsync/internal/domain/synccache"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// SyncCacheService decides whether a fetched payload changed since the last
// sync. Change detection is a SHA-256 over the raw response bytes, so
// providers that re-serve identical documents cost one hash and one lookup
// instead of a full ingest.
type SyncCacheService struct {
	cacheRepo synccache.Repository
	logger    *logging.Logger
	now       func() time.Time
}

func NewSyncCacheService(cacheRepo synccache.Repository, logger *logging.Logger) *SyncCacheService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncCacheService{
		cacheRepo: cacheRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckAndUpdate hashes the payload against the stored entry for the key.
// It returns true when the payload is new or different, storing the fresh
// hash; false means the unit of work can be skipped. A cache read failure
// degrades to "changed" so a broken cache never suppresses ingestion.
func (s *SyncCacheService) CheckAndUpdate(ctx context.Context, key synccache.Key, payload []byte) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncCacheService.CheckAndUpdate")
	defer span.End()

	if key.Source == "" || key.ResourceType == "" || key.ResourceKey == "" {
		return false, fmt.Errorf("%w: cache key requires source, resource type and resource key", ErrInvalidInput)
	}

	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	entry, ok, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "sync cache read failed, treating payload as changed",
			"source", key.Source, "resource_type", key.ResourceType, "resource_key", key.ResourceKey, "error", err)
	} else if ok && entry.ContentHash == hash {
		return false, nil
	}

	if err := s.cacheRepo.Put(ctx, synccache.Entry{
		Source:       key.Source,
		ResourceType: key.ResourceType,
		ResourceKey:  key.ResourceKey,
		ContentHash:  hash,
		Payload:      payload,
		UpdatedAt:    s.now().UTC(),
	}); err != nil {
		return true, fmt.Errorf("store sync cache entry: %w", err)
	}
	return true, nil
}
