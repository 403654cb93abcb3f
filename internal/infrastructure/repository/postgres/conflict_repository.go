package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/conflict"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type conflictRowModel struct {
	ID              string    `db:"id"`
	EntityKind      string    `db:"entity_kind"`
	Source          string    `db:"source"`
	ExternalID      string    `db:"external_id"`
	BoundEntityID   string    `db:"bound_entity_id"`
	MatchedEntityID string    `db:"matched_entity_id"`
	Detail          string    `db:"detail"`
	CreatedAt       time.Time `db:"created_at"`
}

type ConflictRepository struct {
	db *sqlx.DB
}

func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) Record(ctx context.Context, item conflict.Conflict) error {
	model := conflictRowModel{
		ID:              item.ID,
		EntityKind:      item.EntityKind,
		Source:          item.Source,
		ExternalID:      item.ExternalID,
		BoundEntityID:   item.BoundEntityID,
		MatchedEntityID: item.MatchedEntityID,
		Detail:          item.Detail,
		CreatedAt:       item.CreatedAt,
	}
	query, args, err := qb.InsertModel("sync_conflicts", model, "")
	if err != nil {
		return fmt.Errorf("build insert sync conflict query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync conflict: %w", err)
	}
	return nil
}

func (r *ConflictRepository) List(ctx context.Context, limit int) ([]conflict.Conflict, error) {
	builder := qb.Select("*").From("sync_conflicts").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sync conflicts query: %w", err)
	}

	var rows []conflictRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sync conflicts: %w", err)
	}

	out := make([]conflict.Conflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, conflict.Conflict{
			ID:              row.ID,
			EntityKind:      row.EntityKind,
			Source:          row.Source,
			ExternalID:      row.ExternalID,
			BoundEntityID:   row.BoundEntityID,
			MatchedEntityID: row.MatchedEntityID,
			Detail:          row.Detail,
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}
