package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/roster"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type rosterTableModel struct {
	PlayerID     string        `db:"player_id"`
	TeamID       string        `db:"team_id"`
	SeasonID     string        `db:"season_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	Positions    string        `db:"positions"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type rosterInsertModel struct {
	PlayerID     string        `db:"player_id"`
	TeamID       string        `db:"team_id"`
	SeasonID     string        `db:"season_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	Positions    string        `db:"positions"`
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Upsert keeps existing jersey and position data when the incoming row
// does not carry them, so later sparse sources never erase earlier detail.
func (r *RosterRepository) Upsert(ctx context.Context, item roster.Membership) error {
	model := rosterInsertModel{
		PlayerID:     item.PlayerID,
		TeamID:       item.TeamID,
		SeasonID:     item.SeasonID,
		JerseyNumber: nullableInt(item.JerseyNumber),
		Positions:    positionsToText(item.Positions),
	}
	suffix := `ON CONFLICT (player_id, team_id, season_id)
DO UPDATE SET
    jersey_number = COALESCE(EXCLUDED.jersey_number, roster_memberships.jersey_number),
    positions = CASE WHEN EXCLUDED.positions = '' THEN roster_memberships.positions ELSE EXCLUDED.positions END,
    updated_at = NOW()`

	query, args, err := qb.InsertModel("roster_memberships", model, suffix)
	if err != nil {
		return fmt.Errorf("build upsert roster membership query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "upsert roster membership")
	}
	return nil
}

func (r *RosterRepository) ListByTeamSeason(ctx context.Context, teamID, seasonID string) ([]roster.Membership, error) {
	query, args, err := qb.Select("*").From("roster_memberships").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season_id", seasonID),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster by team season query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RosterRepository) ListByPlayer(ctx context.Context, playerID string) ([]roster.Membership, error) {
	query, args, err := qb.Select("*").From("roster_memberships").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season_id", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster by player query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RosterRepository) list(ctx context.Context, query string, args []any) ([]roster.Membership, error) {
	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster memberships: %w", err)
	}

	out := make([]roster.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Membership{
			PlayerID:     row.PlayerID,
			TeamID:       row.TeamID,
			SeasonID:     row.SeasonID,
			JerseyNumber: intPointer(row.JerseyNumber),
			Positions:    textToPositions(row.Positions),
		})
	}
	return out, nil
}
