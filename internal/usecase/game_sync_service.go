package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/game"
	"github.com/courtdata/courtsync/internal/domain/gamestats"
	"github.com/courtdata/courtsync/internal/domain/playbyplay"
	"github.com/courtdata/courtsync/internal/domain/roster"
	"github.com/courtdata/courtsync/internal/domain/team"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// GameSyncService ingests games, box scores and play-by-play for one
// provider. Games stay provider-scoped; per-game statistics are snapshots
// replaced wholesale on re-sync rather than merged.
type GameSyncService struct {
	gameRepo   game.Repository
	statsRepo  gamestats.Repository
	pbpRepo    playbyplay.Repository
	rosterRepo roster.Repository
	teamRepo   team.Repository
	teamSvc    *TeamSyncService
	playerSvc  *PlayerSyncService
	ids        id.Generator
	logger     *logging.Logger
}

func NewGameSyncService(
	gameRepo game.Repository,
	statsRepo gamestats.Repository,
	pbpRepo playbyplay.Repository,
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	teamSvc *TeamSyncService,
	playerSvc *PlayerSyncService,
	ids id.Generator,
	logger *logging.Logger,
) *GameSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameSyncService{
		gameRepo:   gameRepo,
		statsRepo:  statsRepo,
		pbpRepo:    pbpRepo,
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		teamSvc:    teamSvc,
		playerSvc:  playerSvc,
		ids:        ids,
		logger:     logger,
	}
}

// SyncGame upserts one scheduled or played game, resolving both teams
// first. An unparseable status is stored as scheduled so nothing downstream
// treats the game as final by accident.
func (s *GameSyncService) SyncGame(ctx context.Context, leagueID, seasonID, source string, raw RawGame) (game.Game, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "GameSyncService.SyncGame")
	defer span.End()

	source = strings.TrimSpace(source)
	raw.ExternalID = strings.TrimSpace(raw.ExternalID)
	if source == "" || raw.ExternalID == "" {
		return game.Game{}, "", fmt.Errorf("%w: source and external id are required", ErrInvalidInput)
	}
	if strings.TrimSpace(seasonID) == "" {
		return game.Game{}, "", fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	home, _, err := s.teamSvc.SyncTeamSeason(ctx, leagueID, seasonID, source, RawTeam{
		ExternalID: raw.HomeTeamExternalID,
		Name:       raw.HomeTeamName,
	})
	if err != nil {
		return game.Game{}, "", fmt.Errorf("resolve home team: %w", err)
	}
	away, _, err := s.teamSvc.SyncTeamSeason(ctx, leagueID, seasonID, source, RawTeam{
		ExternalID: raw.AwayTeamExternalID,
		Name:       raw.AwayTeamName,
	})
	if err != nil {
		return game.Game{}, "", fmt.Errorf("resolve away team: %w", err)
	}

	status, ok := canonical.ParseGameStatus(raw.Status)
	if !ok {
		s.logger.WarnContext(ctx, "unparseable game status",
			"source", source, "external_id", raw.ExternalID, "value", raw.Status)
		status = canonical.StatusScheduled
	}

	_, existed, err := s.gameRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return game.Game{}, "", fmt.Errorf("get game by external id: %w", err)
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return game.Game{}, "", fmt.Errorf("generate game id: %w", err)
	}
	item := game.Game{
		ID:          newID,
		SeasonID:    seasonID,
		Source:      source,
		ExternalID:  raw.ExternalID,
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
		ScheduledAt: raw.ScheduledAt,
		Status:      status,
		HomeScore:   raw.HomeScore,
		AwayScore:   raw.AwayScore,
		Venue:       raw.Venue,
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.gameRepo.Upsert(ctx, item)
	if err != nil {
		return game.Game{}, "", fmt.Errorf("upsert game: %w", err)
	}
	if existed {
		return stored, OutcomeMerged, nil
	}
	return stored, OutcomeCreated, nil
}

// BoxScoreResult summarizes one box-score ingest.
type BoxScoreResult struct {
	PlayerLines    int
	TeamLines      int
	SkippedLines   int
	CreatedPlayers int
}

// SyncBoxScore resolves every stat line's player, derives team totals and
// replaces all stored statistics for the (game, source) pair in one
// transaction. Lines whose team or player cannot be resolved are skipped
// and counted; they never block the rest of the box score.
func (s *GameSyncService) SyncBoxScore(ctx context.Context, g game.Game, raw RawBoxScore) (BoxScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "GameSyncService.SyncBoxScore")
	defer span.End()

	if g.ID == "" || g.Source == "" {
		return BoxScoreResult{}, fmt.Errorf("%w: game with id and source is required", ErrInvalidInput)
	}

	teamIDByExternal := map[string]string{
		raw.HomeTeamExternalID: g.HomeTeamID,
		raw.AwayTeamExternalID: g.AwayTeamID,
	}

	var out BoxScoreResult
	var playerLines []gamestats.PlayerLine
	linesByTeam := make(map[string][]gamestats.PlayerLine)

	for _, line := range raw.Lines {
		teamID, ok := teamIDByExternal[line.TeamExternalID]
		if !ok || teamID == "" {
			s.logger.WarnContext(ctx, "stat line for unknown team",
				"game_id", g.ID, "source", g.Source, "team_external_id", line.TeamExternalID)
			out.SkippedLines++
			continue
		}

		resolved, outcome, err := s.playerSvc.SyncPlayerFromStats(ctx, g.Source, teamID, line)
		if err != nil {
			if outcome == OutcomeConflict {
				out.SkippedLines++
				continue
			}
			return out, fmt.Errorf("resolve stat line player %q: %w", line.PlayerName, err)
		}
		if outcome == OutcomeCreated {
			out.CreatedPlayers++
		}

		membership := roster.Membership{
			PlayerID:     resolved.ID,
			TeamID:       teamID,
			SeasonID:     g.SeasonID,
			JerseyNumber: line.JerseyNumber,
			Positions:    parsePositions(line.Positions),
		}
		if err := s.rosterRepo.Upsert(ctx, membership); err != nil {
			return out, fmt.Errorf("upsert roster membership: %w", err)
		}

		stat := gamestats.PlayerLine{
			GameID:          g.ID,
			Source:          g.Source,
			PlayerID:        resolved.ID,
			TeamID:          teamID,
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
			JerseyNumber:    line.JerseyNumber,
		}
		playerLines = append(playerLines, stat)
		linesByTeam[teamID] = append(linesByTeam[teamID], stat)
	}

	teamIDs := make([]string, 0, len(linesByTeam))
	for teamID := range linesByTeam {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	teamLines := make([]gamestats.TeamLine, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		teamLines = append(teamLines, gamestats.Aggregate(g.ID, g.Source, teamID, linesByTeam[teamID]))
	}

	if err := s.statsRepo.ReplaceForGame(ctx, g.ID, g.Source, playerLines, teamLines); err != nil {
		return out, fmt.Errorf("replace game statistics: %w", err)
	}
	out.PlayerLines = len(playerLines)
	out.TeamLines = len(teamLines)
	return out, nil
}

// SyncPlayByPlay translates provider event tokens through the locale table
// and replaces the stored feed for the (game, source) pair. Team and player
// references resolve best-effort through existing external-id bindings;
// events never create entities.
func (s *GameSyncService) SyncPlayByPlay(ctx context.Context, g game.Game, locale map[string]canonical.EventType, events []RawEvent) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "GameSyncService.SyncPlayByPlay")
	defer span.End()

	if g.ID == "" || g.Source == "" {
		return 0, fmt.Errorf("%w: game with id and source is required", ErrInvalidInput)
	}

	out := make([]playbyplay.Event, 0, len(events))
	teamIDCache := make(map[string]string)
	playerIDCache := make(map[string]string)

	for _, e := range events {
		if e.EventNumber <= 0 {
			s.logger.WarnContext(ctx, "play-by-play event without number",
				"game_id", g.ID, "source", g.Source, "type", e.Type)
			continue
		}
		kind, subtype := canonical.ParseEventType(e.Type, locale)

		item := playbyplay.Event{
			GameID:              g.ID,
			Source:              g.Source,
			EventNumber:         e.EventNumber,
			Period:              e.Period,
			Clock:               e.Clock,
			Type:                kind,
			Subtype:             subtype,
			RelatedEventNumbers: e.RelatedEventNumbers,
			HomeScore:           e.HomeScore,
			AwayScore:           e.AwayScore,
		}
		if e.TeamExternalID != "" {
			item.TeamID = s.lookupTeamID(ctx, g.Source, e.TeamExternalID, teamIDCache)
		}
		if e.PlayerExternalID != "" {
			item.PlayerID = s.lookupPlayerID(ctx, g.Source, e.PlayerExternalID, playerIDCache)
		}
		out = append(out, item)
	}

	if err := s.pbpRepo.ReplaceForGame(ctx, g.ID, g.Source, out); err != nil {
		return 0, fmt.Errorf("replace play-by-play: %w", err)
	}
	return len(out), nil
}

func (s *GameSyncService) lookupTeamID(ctx context.Context, source, externalID string, cache map[string]string) string {
	if resolved, ok := cache[externalID]; ok {
		return resolved
	}
	found, ok, err := s.teamRepo.GetBySourceExternalID(ctx, source, externalID)
	if err != nil {
		s.logger.WarnContext(ctx, "team lookup failed during play-by-play",
			"source", source, "external_id", externalID, "error", err)
		return ""
	}
	resolved := ""
	if ok {
		resolved = found.ID
	}
	cache[externalID] = resolved
	return resolved
}

func (s *GameSyncService) lookupPlayerID(ctx context.Context, source, externalID string, cache map[string]string) string {
	if resolved, ok := cache[externalID]; ok {
		return resolved
	}
	found, ok, err := s.playerSvc.playerRepo.GetBySourceExternalID(ctx, source, externalID)
	if err != nil {
		s.logger.WarnContext(ctx, "player lookup failed during play-by-play",
			"source", source, "external_id", externalID, "error", err)
		return ""
	}
	resolved := ""
	if ok {
		resolved = found.ID
	}
	cache[externalID] = resolved
	return resolved
}
