package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtdata/courtsync/internal/domain/conflict"
	"github.com/courtdata/courtsync/internal/domain/roster"
	"github.com/courtdata/courtsync/internal/domain/storage"
	"github.com/courtdata/courtsync/internal/domain/team"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// TeamSyncService resolves provider team records against the canonical
// store. Matching is tiered and deterministic: external id first, then
// normalized name, then short name. A match by name where the candidate
// already carries a different external id for the same source is a
// conflict, never an overwrite.
type TeamSyncService struct {
	teamRepo     team.Repository
	rosterRepo   roster.Repository
	conflictRepo conflict.Repository
	playerSvc    *PlayerSyncService
	ids          id.Generator
	logger       *logging.Logger
}

func NewTeamSyncService(
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	conflictRepo conflict.Repository,
	playerSvc *PlayerSyncService,
	ids id.Generator,
	logger *logging.Logger,
) *TeamSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamSyncService{
		teamRepo:     teamRepo,
		rosterRepo:   rosterRepo,
		conflictRepo: conflictRepo,
		playerSvc:    playerSvc,
		ids:          ids,
		logger:       logger,
	}
}

// SyncTeam finds or creates the canonical team for one provider record and
// returns it together with what happened. Field merges only fill values the
// stored team is missing.
func (s *TeamSyncService) SyncTeam(ctx context.Context, leagueID, source string, raw RawTeam) (team.Team, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSyncService.SyncTeam")
	defer span.End()

	source = strings.TrimSpace(source)
	raw.ExternalID = strings.TrimSpace(raw.ExternalID)
	raw.Name = strings.TrimSpace(raw.Name)
	if source == "" || raw.ExternalID == "" {
		return team.Team{}, "", fmt.Errorf("%w: source and external id are required", ErrInvalidInput)
	}
	if raw.Name == "" {
		return team.Team{}, "", fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	// Tier 1: the pair is already bound.
	existing, ok, err := s.teamRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("get team by external id: %w", err)
	}
	if ok {
		if err := s.teamRepo.FillMissingFields(ctx, existing.ID, fillableTeamFields(raw)); err != nil {
			return team.Team{}, "", fmt.Errorf("fill team fields: %w", err)
		}
		return existing, OutcomeUnchanged, nil
	}

	// Tier 2: normalized name, then short name.
	candidate, ok, err := s.teamRepo.GetByNormalizedName(ctx, team.Normalized(raw.Name))
	if err != nil {
		return team.Team{}, "", fmt.Errorf("get team by normalized name: %w", err)
	}
	if !ok && raw.ShortName != "" {
		candidate, ok, err = s.teamRepo.GetByShortName(ctx, raw.ShortName)
		if err != nil {
			return team.Team{}, "", fmt.Errorf("get team by short name: %w", err)
		}
	}
	if ok {
		return s.mergeTeam(ctx, candidate, source, raw)
	}

	created, err := s.createTeam(ctx, leagueID, source, raw)
	if err == nil {
		s.logger.InfoContext(ctx, "team created",
			"team_id", created.ID, "source", source, "external_id", raw.ExternalID, "name", raw.Name)
		return created, OutcomeCreated, nil
	}
	if !storage.IsConflict(err) {
		return team.Team{}, "", err
	}

	// Lost a create race: another worker bound the same identity between
	// our lookups and the insert. Re-query once and take the merge path.
	existing, ok, err = s.teamRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("requery team by external id: %w", err)
	}
	if ok {
		return existing, OutcomeUnchanged, nil
	}
	candidate, ok, err = s.teamRepo.GetByNormalizedName(ctx, team.Normalized(raw.Name))
	if err != nil {
		return team.Team{}, "", fmt.Errorf("requery team by normalized name: %w", err)
	}
	if ok {
		return s.mergeTeam(ctx, candidate, source, raw)
	}
	return team.Team{}, "", fmt.Errorf("%w: team source=%s external_id=%s", ErrPersistenceConflict, source, raw.ExternalID)
}

// SyncTeamSeason syncs the team and records its participation in the season.
func (s *TeamSyncService) SyncTeamSeason(ctx context.Context, leagueID, seasonID, source string, raw RawTeam) (team.Team, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSyncService.SyncTeamSeason")
	defer span.End()

	if strings.TrimSpace(seasonID) == "" {
		return team.Team{}, "", fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	synced, outcome, err := s.SyncTeam(ctx, leagueID, source, raw)
	if err != nil {
		return team.Team{}, outcome, err
	}
	if err := s.teamRepo.EnsureSeasonParticipation(ctx, synced.ID, seasonID); err != nil {
		return team.Team{}, "", fmt.Errorf("ensure season participation: %w", err)
	}
	return synced, outcome, nil
}

// RosterResult summarizes one roster sync.
type RosterResult struct {
	Resolved  int
	Created   int
	Conflicts int
}

// SyncRoster resolves each stat line's player through the deduplicator and
// upserts the (player, team, season) membership with jersey number and
// parsed positions. Lines whose player resolution conflicts are skipped and
// counted; the rest of the roster still lands.
func (s *TeamSyncService) SyncRoster(ctx context.Context, teamID, seasonID, source string, lines []RawStatLine) (RosterResult, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamSyncService.SyncRoster")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	seasonID = strings.TrimSpace(seasonID)
	if teamID == "" || seasonID == "" {
		return RosterResult{}, fmt.Errorf("%w: team id and season id are required", ErrInvalidInput)
	}

	var out RosterResult
	for _, line := range lines {
		resolved, outcome, err := s.playerSvc.SyncPlayerFromStats(ctx, source, teamID, line)
		if err != nil {
			if outcome == OutcomeConflict {
				out.Conflicts++
				continue
			}
			return out, fmt.Errorf("resolve roster player %q: %w", line.PlayerName, err)
		}
		if outcome == OutcomeCreated {
			out.Created++
		}

		membership := roster.Membership{
			PlayerID:     resolved.ID,
			TeamID:       teamID,
			SeasonID:     seasonID,
			JerseyNumber: line.JerseyNumber,
			Positions:    parsePositions(line.Positions),
		}
		if err := s.rosterRepo.Upsert(ctx, membership); err != nil {
			return out, fmt.Errorf("upsert roster membership: %w", err)
		}
		out.Resolved++
	}
	return out, nil
}

func (s *TeamSyncService) mergeTeam(ctx context.Context, candidate team.Team, source string, raw RawTeam) (team.Team, SyncOutcome, error) {
	if bound, ok := candidate.ExternalIDs[source]; ok && bound != raw.ExternalID {
		s.recordTeamConflict(ctx, candidate, source, raw, bound)
		return team.Team{}, OutcomeConflict, fmt.Errorf(
			"%w: team %s already bound to %s/%s, provider sent %s",
			ErrExternalIDConflict, candidate.ID, source, bound, raw.ExternalID)
	}

	if err := s.teamRepo.AddExternalID(ctx, candidate.ID, source, raw.ExternalID); err != nil {
		if storage.IsConflict(err) {
			// The pair got bound elsewhere concurrently; whoever holds it
			// now is the canonical answer.
			existing, ok, reErr := s.teamRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
			if reErr != nil {
				return team.Team{}, "", fmt.Errorf("requery after external id race: %w", reErr)
			}
			if ok {
				return existing, OutcomeUnchanged, nil
			}
			return team.Team{}, "", fmt.Errorf("%w: team external id %s/%s", ErrPersistenceConflict, source, raw.ExternalID)
		}
		return team.Team{}, "", fmt.Errorf("add team external id: %w", err)
	}
	if err := s.teamRepo.FillMissingFields(ctx, candidate.ID, fillableTeamFields(raw)); err != nil {
		return team.Team{}, "", fmt.Errorf("fill team fields: %w", err)
	}

	merged, ok, err := s.teamRepo.GetByID(ctx, candidate.ID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("reload merged team: %w", err)
	}
	if !ok {
		return team.Team{}, "", fmt.Errorf("%w: team=%s", ErrNotFound, candidate.ID)
	}
	s.logger.InfoContext(ctx, "team merged",
		"team_id", merged.ID, "source", source, "external_id", raw.ExternalID)
	return merged, OutcomeMerged, nil
}

func (s *TeamSyncService) createTeam(ctx context.Context, leagueID, source string, raw RawTeam) (team.Team, error) {
	newID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	item := team.Team{
		ID:             newID,
		LeagueID:       leagueID,
		Name:           raw.Name,
		NormalizedName: team.Normalized(raw.Name),
		ShortName:      raw.ShortName,
		City:           raw.City,
		VenueName:      raw.VenueName,
		LogoURL:        raw.LogoURL,
		ExternalIDs:    map[string]string{source: raw.ExternalID},
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, err
	}
	return item, nil
}

func (s *TeamSyncService) recordTeamConflict(ctx context.Context, candidate team.Team, source string, raw RawTeam, bound string) {
	item := conflict.Conflict{
		EntityKind:      "team",
		Source:          source,
		ExternalID:      raw.ExternalID,
		MatchedEntityID: candidate.ID,
		Detail: fmt.Sprintf("name match %q but team already bound to external id %s",
			raw.Name, bound),
		CreatedAt: time.Now().UTC(),
	}
	if holder, ok, err := s.teamRepo.GetBySourceExternalID(ctx, source, raw.ExternalID); err != nil {
		s.logger.WarnContext(ctx, "resolve bound team for conflict failed",
			"source", source, "external_id", raw.ExternalID, "error", err)
	} else if ok {
		item.BoundEntityID = holder.ID
	}
	if newID, err := s.ids.NewID(); err == nil {
		item.ID = newID
	}
	if err := s.conflictRepo.Record(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "record team conflict failed",
			"team_id", candidate.ID, "source", source, "external_id", raw.ExternalID, "error", err)
		return
	}
	s.logger.WarnContext(ctx, "team external id conflict",
		"team_id", candidate.ID, "source", source, "external_id", raw.ExternalID, "bound_external_id", bound)
}

func fillableTeamFields(raw RawTeam) team.Team {
	return team.Team{
		ShortName: raw.ShortName,
		City:      raw.City,
		VenueName: raw.VenueName,
		LogoURL:   raw.LogoURL,
	}
}
