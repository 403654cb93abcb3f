package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/courtsync/internal/domain/gamestats"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type GameStatsRepository struct {
	db *sqlx.DB
}

func NewGameStatsRepository(db *sqlx.DB) *GameStatsRepository {
	return &GameStatsRepository{db: db}
}

func (r *GameStatsRepository) ListPlayerLines(ctx context.Context, gameID, source string) ([]gamestats.PlayerLine, error) {
	query, args, err := qb.Select("*").From("game_player_lines").
		Where(
			qb.Eq("game_id", gameID),
			qb.Eq("source", source),
		).
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player lines query: %w", err)
	}

	var rows []playerLineInsertModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player lines: %w", err)
	}

	out := make([]gamestats.PlayerLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamestats.PlayerLine{
			GameID:          row.GameID,
			Source:          row.Source,
			PlayerID:        row.PlayerID,
			TeamID:          row.TeamID,
			SecondsPlayed:   row.SecondsPlayed,
			Points:          row.Points,
			TwoPointsMade:   row.TwoPointsMade,
			TwoPointsAtt:    row.TwoPointsAtt,
			ThreePointsMade: row.ThreePointsMade,
			ThreePointsAtt:  row.ThreePointsAtt,
			FreeThrowsMade:  row.FreeThrowsMade,
			FreeThrowsAtt:   row.FreeThrowsAtt,
			OffRebounds:     row.OffRebounds,
			DefRebounds:     row.DefRebounds,
			Assists:         row.Assists,
			Steals:          row.Steals,
			Blocks:          row.Blocks,
			Turnovers:       row.Turnovers,
			Fouls:           row.Fouls,
			PlusMinus:       row.PlusMinus,
			Starter:         row.Starter,
			JerseyNumber:    intPointer(row.JerseyNumber),
		})
	}
	return out, nil
}

func (r *GameStatsRepository) ListTeamLines(ctx context.Context, gameID, source string) ([]gamestats.TeamLine, error) {
	query, args, err := qb.Select("*").From("game_team_lines").
		Where(
			qb.Eq("game_id", gameID),
			qb.Eq("source", source),
		).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team lines query: %w", err)
	}

	var rows []teamLineInsertModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team lines: %w", err)
	}

	out := make([]gamestats.TeamLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamestats.TeamLine{
			GameID:          row.GameID,
			Source:          row.Source,
			TeamID:          row.TeamID,
			Points:          row.Points,
			TwoPointsMade:   row.TwoPointsMade,
			TwoPointsAtt:    row.TwoPointsAtt,
			ThreePointsMade: row.ThreePointsMade,
			ThreePointsAtt:  row.ThreePointsAtt,
			FreeThrowsMade:  row.FreeThrowsMade,
			FreeThrowsAtt:   row.FreeThrowsAtt,
			OffRebounds:     row.OffRebounds,
			DefRebounds:     row.DefRebounds,
			Assists:         row.Assists,
			Steals:          row.Steals,
			Blocks:          row.Blocks,
			Turnovers:       row.Turnovers,
			Fouls:           row.Fouls,
		})
	}
	return out, nil
}

// ReplaceForGame swaps the full stat snapshot for (game, source) in one
// transaction, so readers never observe a partially synced game.
func (r *GameStatsRepository) ReplaceForGame(ctx context.Context, gameID, source string, players []gamestats.PlayerLine, teams []gamestats.TeamLine) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"game_player_lines", "game_team_lines"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE game_id = $1 AND source = $2", gameID, source); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	for _, line := range players {
		model := playerLineInsertModel{
			GameID:          line.GameID,
			Source:          line.Source,
			PlayerID:        line.PlayerID,
			TeamID:          line.TeamID,
			SecondsPlayed:   line.SecondsPlayed,
			Points:          line.Points,
			TwoPointsMade:   line.TwoPointsMade,
			TwoPointsAtt:    line.TwoPointsAtt,
			ThreePointsMade: line.ThreePointsMade,
			ThreePointsAtt:  line.ThreePointsAtt,
			FreeThrowsMade:  line.FreeThrowsMade,
			FreeThrowsAtt:   line.FreeThrowsAtt,
			OffRebounds:     line.OffRebounds,
			DefRebounds:     line.DefRebounds,
			Assists:         line.Assists,
			Steals:          line.Steals,
			Blocks:          line.Blocks,
			Turnovers:       line.Turnovers,
			Fouls:           line.Fouls,
			PlusMinus:       line.PlusMinus,
			Starter:         line.Starter,
			JerseyNumber:    nullableInt(line.JerseyNumber),
		}
		query, args, err := qb.InsertModel("game_player_lines", model, "")
		if err != nil {
			return fmt.Errorf("build insert player line query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapWriteError(err, fmt.Sprintf("insert player line player=%s", line.PlayerID))
		}
	}

	for _, line := range teams {
		model := teamLineInsertModel{
			GameID:          line.GameID,
			Source:          line.Source,
			TeamID:          line.TeamID,
			Points:          line.Points,
			TwoPointsMade:   line.TwoPointsMade,
			TwoPointsAtt:    line.TwoPointsAtt,
			ThreePointsMade: line.ThreePointsMade,
			ThreePointsAtt:  line.ThreePointsAtt,
			FreeThrowsMade:  line.FreeThrowsMade,
			FreeThrowsAtt:   line.FreeThrowsAtt,
			OffRebounds:     line.OffRebounds,
			DefRebounds:     line.DefRebounds,
			Assists:         line.Assists,
			Steals:          line.Steals,
			Blocks:          line.Blocks,
			Turnovers:       line.Turnovers,
			Fouls:           line.Fouls,
		}
		query, args, err := qb.InsertModel("game_team_lines", model, "")
		if err != nil {
			return fmt.Errorf("build insert team line query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapWriteError(err, fmt.Sprintf("insert team line team=%s", line.TeamID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game stats tx: %w", err)
	}
	return nil
}
