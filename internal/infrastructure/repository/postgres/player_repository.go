package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/player"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}
	return r.hydrate(ctx, row)
}

func (r *PlayerRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (player.Player, bool, error) {
	entityID, found, err := findEntityIDByExternal(ctx, r.db, "player_external_ids", source, externalID)
	if err != nil || !found {
		return player.Player{}, false, err
	}
	return r.GetByID(ctx, entityID)
}

// ListByTeam returns players that appear on any season roster of the team,
// which is the deduplicator's team-scoped candidate pool.
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select("p.*").From("players p").
		Where(qb.Expr("p.id IN (SELECT player_id FROM roster_memberships WHERE team_id = ?)", teamID)).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PlayerRepository) ListByNormalizedName(ctx context.Context, normalizedName string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("normalized_name", normalizedName)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by name query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	model := playerInsertModel{
		ID:             item.ID,
		FullName:       item.FullName,
		NormalizedName: item.NormalizedName,
		GivenName:      item.GivenName,
		Surname:        item.Surname,
		Positions:      positionsToText(item.Positions),
		HeightCm:       heightToColumn(item.Height),
		Birthdate:      birthdateToColumn(item.Birthdate),
		Nationality:    item.Nationality,
	}
	query, args, err := qb.InsertModel("players", model, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "insert player")
	}

	for source, externalID := range item.ExternalIDs {
		if err := insertExternalID(ctx, r.db, "player_external_ids", item.ID, source, externalID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PlayerRepository) AddExternalID(ctx context.Context, playerID, source, externalID string) error {
	return insertExternalID(ctx, r.db, "player_external_ids", playerID, source, externalID)
}

// FillMissingFields updates only unset columns. Stored biography always
// wins over the incoming one.
func (r *PlayerRepository) FillMissingFields(ctx context.Context, playerID string, fields player.Player) error {
	const query = `UPDATE players SET
    given_name = CASE WHEN given_name = '' THEN $2 ELSE given_name END,
    surname = CASE WHEN surname = '' THEN $3 ELSE surname END,
    positions = CASE WHEN positions = '' THEN $4 ELSE positions END,
    height_cm = COALESCE(height_cm, $5),
    birthdate = COALESCE(birthdate, $6),
    nationality = CASE WHEN nationality = '' THEN $7 ELSE nationality END,
    updated_at = NOW()
WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		playerID,
		fields.GivenName,
		fields.Surname,
		positionsToText(fields.Positions),
		heightToColumn(fields.Height),
		birthdateToColumn(fields.Birthdate),
		fields.Nationality,
	)
	if err != nil {
		return fmt.Errorf("fill player fields: %w", err)
	}
	return nil
}

func (r *PlayerRepository) list(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, _, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PlayerRepository) hydrate(ctx context.Context, row playerTableModel) (player.Player, bool, error) {
	externalIDs, err := loadExternalIDs(ctx, r.db, "player_external_ids", row.ID)
	if err != nil {
		return player.Player{}, false, err
	}
	return row.toDomain(externalIDs), true, nil
}
