package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/playbyplay"
	qb "github.com/courtdata/courtsync/internal/platform/querybuilder"
)

type playByPlayRowModel struct {
	GameID       string        `db:"game_id"`
	Source       string        `db:"source"`
	EventNumber  int           `db:"event_number"`
	Period       int           `db:"period"`
	Clock        string        `db:"clock"`
	TeamID       string        `db:"team_id"`
	PlayerID     string        `db:"player_id"`
	EventType    string        `db:"event_type"`
	Subtype      string        `db:"subtype"`
	RelatedNums  pq.Int64Array `db:"related_event_numbers"`
	HomeScore    int           `db:"home_score"`
	AwayScore    int           `db:"away_score"`
}

type PlayByPlayRepository struct {
	db *sqlx.DB
}

func NewPlayByPlayRepository(db *sqlx.DB) *PlayByPlayRepository {
	return &PlayByPlayRepository{db: db}
}

func (r *PlayByPlayRepository) ListByGame(ctx context.Context, gameID, source string) ([]playbyplay.Event, error) {
	query, args, err := qb.Select("*").From("play_by_play_events").
		Where(
			qb.Eq("game_id", gameID),
			qb.Eq("source", source),
		).
		OrderBy("event_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select play-by-play query: %w", err)
	}

	var rows []playByPlayRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select play-by-play: %w", err)
	}

	out := make([]playbyplay.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, playbyplay.Event{
			GameID:              row.GameID,
			Source:              row.Source,
			EventNumber:         row.EventNumber,
			Period:              row.Period,
			Clock:               row.Clock,
			TeamID:              row.TeamID,
			PlayerID:            row.PlayerID,
			Type:                canonical.EventType(row.EventType),
			Subtype:             row.Subtype,
			RelatedEventNumbers: int64sToInts(row.RelatedNums),
			HomeScore:           row.HomeScore,
			AwayScore:           row.AwayScore,
		})
	}
	return out, nil
}

// ReplaceForGame swaps the event log for (game, source) in one transaction.
func (r *PlayByPlayRepository) ReplaceForGame(ctx context.Context, gameID, source string, events []playbyplay.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace play-by-play: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM play_by_play_events WHERE game_id = $1 AND source = $2", gameID, source); err != nil {
		return fmt.Errorf("delete play-by-play: %w", err)
	}

	for _, event := range events {
		model := playByPlayRowModel{
			GameID:      event.GameID,
			Source:      event.Source,
			EventNumber: event.EventNumber,
			Period:      event.Period,
			Clock:       event.Clock,
			TeamID:      event.TeamID,
			PlayerID:    event.PlayerID,
			EventType:   string(event.Type),
			Subtype:     event.Subtype,
			RelatedNums: intsToInt64s(event.RelatedEventNumbers),
			HomeScore:   event.HomeScore,
			AwayScore:   event.AwayScore,
		}
		query, args, err := qb.InsertModel("play_by_play_events", model, "")
		if err != nil {
			return fmt.Errorf("build insert play-by-play event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapWriteError(err, fmt.Sprintf("insert play-by-play event number=%d", event.EventNumber))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace play-by-play tx: %w", err)
	}
	return nil
}

func intsToInt64s(values []int) pq.Int64Array {
	if len(values) == 0 {
		return nil
	}
	out := make(pq.Int64Array, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}
	return out
}

func int64sToInts(values pq.Int64Array) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, int(v))
	}
	return out
}
