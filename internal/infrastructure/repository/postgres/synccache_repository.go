package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/synccache"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type syncCacheRowModel struct {
	Source       string    `db:"source"`
	ResourceType string    `db:"resource_type"`
	ResourceKey  string    `db:"resource_key"`
	ContentHash  string    `db:"content_hash"`
	Payload      []byte    `db:"payload"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type SyncCacheRepository struct {
	db *sqlx.DB
}

func NewSyncCacheRepository(db *sqlx.DB) *SyncCacheRepository {
	return &SyncCacheRepository{db: db}
}

func (r *SyncCacheRepository) Get(ctx context.Context, key synccache.Key) (synccache.Entry, bool, error) {
	query, args, err := qb.Select("*").From("sync_cache").
		Where(
			qb.Eq("source", key.Source),
			qb.Eq("resource_type", key.ResourceType),
			qb.Eq("resource_key", key.ResourceKey),
		).
		ToSQL()
	if err != nil {
		return synccache.Entry{}, false, fmt.Errorf("build select sync cache query: %w", err)
	}

	var row syncCacheRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synccache.Entry{}, false, nil
		}
		return synccache.Entry{}, false, fmt.Errorf("select sync cache: %w", err)
	}

	return synccache.Entry{
		Source:       row.Source,
		ResourceType: row.ResourceType,
		ResourceKey:  row.ResourceKey,
		ContentHash:  row.ContentHash,
		Payload:      row.Payload,
		UpdatedAt:    row.UpdatedAt,
	}, true, nil
}

func (r *SyncCacheRepository) Put(ctx context.Context, entry synccache.Entry) error {
	model := syncCacheRowModel{
		Source:       entry.Source,
		ResourceType: entry.ResourceType,
		ResourceKey:  entry.ResourceKey,
		ContentHash:  entry.ContentHash,
		Payload:      entry.Payload,
		UpdatedAt:    entry.UpdatedAt,
	}
	suffix := `ON CONFLICT (source, resource_type, resource_key)
DO UPDATE SET
    content_hash = EXCLUDED.content_hash,
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`

	query, args, err := qb.InsertModel("sync_cache", model, suffix)
	if err != nil {
		return fmt.Errorf("build upsert sync cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync cache: %w", err)
	}
	return nil
}
