package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/team"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", teamID))
}

func (r *TeamRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (team.Team, bool, error) {
	entityID, found, err := findEntityIDByExternal(ctx, r.db, "team_external_ids", source, externalID)
	if err != nil || !found {
		return team.Team{}, false, err
	}
	return r.GetByID(ctx, entityID)
}

func (r *TeamRepository) GetByNormalizedName(ctx context.Context, normalizedName string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("normalized_name", normalizedName))
}

func (r *TeamRepository) GetByShortName(ctx context.Context, shortName string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Expr("LOWER(short_name) = LOWER(?)", shortName))
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	model := teamInsertModel{
		ID:             item.ID,
		LeagueID:       item.LeagueID,
		Name:           item.Name,
		NormalizedName: item.NormalizedName,
		ShortName:      item.ShortName,
		City:           item.City,
		VenueName:      item.VenueName,
		LogoURL:        item.LogoURL,
	}
	query, args, err := qb.InsertModel("teams", model, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapWriteError(err, "insert team")
	}

	for source, externalID := range item.ExternalIDs {
		if err := insertExternalID(ctx, r.db, "team_external_ids", item.ID, source, externalID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TeamRepository) AddExternalID(ctx context.Context, teamID, source, externalID string) error {
	return insertExternalID(ctx, r.db, "team_external_ids", teamID, source, externalID)
}

// FillMissingFields updates only columns that are currently empty, so a
// merge never clobbers data an earlier source already provided.
func (r *TeamRepository) FillMissingFields(ctx context.Context, teamID string, fields team.Team) error {
	const query = `UPDATE teams SET
    short_name = CASE WHEN short_name = '' THEN $2 ELSE short_name END,
    city = CASE WHEN city = '' THEN $3 ELSE city END,
    venue_name = CASE WHEN venue_name = '' THEN $4 ELSE venue_name END,
    logo_url = CASE WHEN logo_url = '' THEN $5 ELSE logo_url END,
    updated_at = NOW()
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, teamID, fields.ShortName, fields.City, fields.VenueName, fields.LogoURL); err != nil {
		return fmt.Errorf("fill team fields: %w", err)
	}
	return nil
}

func (r *TeamRepository) EnsureSeasonParticipation(ctx context.Context, teamID, seasonID string) error {
	model := teamParticipationInsertModel{
		TeamID:   teamID,
		SeasonID: seasonID,
	}
	query, args, err := qb.InsertModel("team_season_participation", model, "ON CONFLICT (team_id, season_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert team participation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team participation: %w", err)
	}
	return nil
}

func (r *TeamRepository) getOne(ctx context.Context, condition qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(condition).
		OrderBy("created_at").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}

	externalIDs, err := loadExternalIDs(ctx, r.db, "team_external_ids", row.ID)
	if err != nil {
		return team.Team{}, false, err
	}

	return team.Team{
		ID:             row.ID,
		LeagueID:       row.LeagueID,
		Name:           row.Name,
		NormalizedName: row.NormalizedName,
		ShortName:      row.ShortName,
		City:           row.City,
		VenueName:      row.VenueName,
		LogoURL:        row.LogoURL,
		ExternalIDs:    externalIDs,
	}, true, nil
}
