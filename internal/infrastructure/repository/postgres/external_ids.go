package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

// External-id maps share one table shape per entity kind:
// (entity_id, source, external_id) with UNIQUE(source, external_id) and
// UNIQUE(entity_id, source). These helpers keep the repositories uniform.

func loadExternalIDs(ctx context.Context, db sqlx.QueryerContext, table, entityID string) (map[string]string, error) {
	query, args, err := qb.Select("entity_id", "source", "external_id").From(table).
		Where(qb.Eq("entity_id", entityID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", table, err)
	}

	var rows []externalIDRowModel
	if err := sqlx.SelectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Source] = row.ExternalID
	}
	return out, nil
}

func findEntityIDByExternal(ctx context.Context, db sqlx.QueryerContext, table, source, externalID string) (string, bool, error) {
	query, args, err := qb.Select("entity_id").From(table).
		Where(
			qb.Eq("source", source),
			qb.Eq("external_id", externalID),
		).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select %s by external id query: %w", table, err)
	}

	var entityID string
	if err := sqlx.GetContext(ctx, db, &entityID, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select %s by external id: %w", table, err)
	}
	return entityID, true, nil
}

func insertExternalID(ctx context.Context, db sqlx.ExecerContext, table, entityID, source, externalID string) error {
	model := externalIDRowModel{
		EntityID:   entityID,
		Source:     source,
		ExternalID: externalID,
	}
	query, args, err := qb.InsertModel(table, model, "")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "insert "+table)
	}
	return nil
}
