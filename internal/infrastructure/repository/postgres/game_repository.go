package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/game"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type gameTableModel struct {
	ID          string        `db:"id"`
	SeasonID    string        `db:"season_id"`
	Source      string        `db:"source"`
	ExternalID  string        `db:"external_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	ScheduledAt time.Time     `db:"scheduled_at"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Venue       string        `db:"venue"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type gameInsertModel struct {
	ID          string        `db:"id"`
	SeasonID    string        `db:"season_id"`
	Source      string        `db:"source"`
	ExternalID  string        `db:"external_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	ScheduledAt time.Time     `db:"scheduled_at"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Venue       string        `db:"venue"`
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	return r.getOne(ctx, qb.Eq("id", gameID))
}

func (r *GameRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (game.Game, bool, error) {
	return r.getOne(ctx,
		qb.Eq("source", source),
		qb.Eq("external_id", externalID),
	)
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID string) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("scheduled_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by season query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by season: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert inserts or refreshes the row for (source, external_id). The stored
// ID survives updates so downstream stat rows keep their foreign keys.
func (r *GameRepository) Upsert(ctx context.Context, item game.Game) (game.Game, error) {
	model := gameInsertModel{
		ID:          item.ID,
		SeasonID:    item.SeasonID,
		Source:      item.Source,
		ExternalID:  item.ExternalID,
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  item.AwayTeamID,
		ScheduledAt: item.ScheduledAt,
		Status:      string(item.Status),
		HomeScore:   nullableInt(item.HomeScore),
		AwayScore:   nullableInt(item.AwayScore),
		Venue:       item.Venue,
	}
	suffix := `ON CONFLICT (source, external_id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    scheduled_at = EXCLUDED.scheduled_at,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    venue = EXCLUDED.venue,
    updated_at = NOW()
RETURNING id`

	query, args, err := qb.InsertModel("games", model, suffix)
	if err != nil {
		return game.Game{}, fmt.Errorf("build upsert game query: %w", err)
	}

	var storedID string
	if err := r.db.GetContext(ctx, &storedID, query, args...); err != nil {
		return game.Game{}, wrapWriteError(err, "upsert game")
	}

	item.ID = storedID
	return item, nil
}

func (r *GameRepository) getOne(ctx context.Context, conditions ...qb.Condition) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return row.toDomain(), true, nil
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:          m.ID,
		SeasonID:    m.SeasonID,
		Source:      m.Source,
		ExternalID:  m.ExternalID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		ScheduledAt: m.ScheduledAt,
		Status:      canonical.GameStatus(m.Status),
		HomeScore:   intPointer(m.HomeScore),
		AwayScore:   intPointer(m.AwayScore),
		Venue:       m.Venue,
	}
}
