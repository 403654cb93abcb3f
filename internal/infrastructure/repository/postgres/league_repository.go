package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/league"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}
	return r.hydrate(ctx, row)
}

func (r *LeagueRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (league.League, bool, error) {
	entityID, found, err := findEntityIDByExternal(ctx, r.db, "league_external_ids", source, externalID)
	if err != nil || !found {
		return league.League{}, false, err
	}
	return r.GetByID(ctx, entityID)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	model := leagueInsertModel{
		ID:      item.ID,
		Name:    item.Name,
		Country: item.Country,
	}
	query, args, err := qb.InsertModel("leagues", model, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "insert league")
	}

	for source, externalID := range item.ExternalIDs {
		if err := insertExternalID(ctx, r.db, "league_external_ids", item.ID, source, externalID); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeagueRepository) AddExternalID(ctx context.Context, leagueID, source, externalID string) error {
	return insertExternalID(ctx, r.db, "league_external_ids", leagueID, source, externalID)
}

func (r *LeagueRepository) hydrate(ctx context.Context, row leagueTableModel) (league.League, bool, error) {
	externalIDs, err := loadExternalIDs(ctx, r.db, "league_external_ids", row.ID)
	if err != nil {
		return league.League{}, false, err
	}
	return league.League{
		ID:          row.ID,
		Name:        row.Name,
		Country:     row.Country,
		ExternalIDs: externalIDs,
	}, true, nil
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (league.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("select season: %w", err)
	}
	return r.hydrate(ctx, row)
}

func (r *SeasonRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (league.Season, bool, error) {
	entityID, found, err := findEntityIDByExternal(ctx, r.db, "season_external_ids", source, externalID)
	if err != nil || !found {
		return league.Season{}, false, err
	}
	return r.GetByID(ctx, entityID)
}

func (r *SeasonRepository) GetByLeagueAndYears(ctx context.Context, leagueID string, startYear, endYear int) (league.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("start_year", startYear),
			qb.Eq("end_year", endYear),
		).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select season by years query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("select season by years: %w", err)
	}
	return r.hydrate(ctx, row)
}

func (r *SeasonRepository) Create(ctx context.Context, item league.Season) error {
	model := seasonInsertModel{
		ID:        item.ID,
		LeagueID:  item.LeagueID,
		Name:      item.Name,
		StartYear: item.StartYear,
		EndYear:   item.EndYear,
	}
	query, args, err := qb.InsertModel("seasons", model, "")
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "insert season")
	}

	for source, externalID := range item.ExternalIDs {
		if err := insertExternalID(ctx, r.db, "season_external_ids", item.ID, source, externalID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeasonRepository) AddExternalID(ctx context.Context, seasonID, source, externalID string) error {
	return insertExternalID(ctx, r.db, "season_external_ids", seasonID, source, externalID)
}

func (r *SeasonRepository) hydrate(ctx context.Context, row seasonTableModel) (league.Season, bool, error) {
	externalIDs, err := loadExternalIDs(ctx, r.db, "season_external_ids", row.ID)
	if err != nil {
		return league.Season{}, false, err
	}
	return league.Season{
		ID:          row.ID,
		LeagueID:    row.LeagueID,
		Name:        row.Name,
		StartYear:   row.StartYear,
		EndYear:     row.EndYear,
		ExternalIDs: externalIDs,
	}, true, nil
}
