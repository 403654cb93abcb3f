package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/conflict"
	"github.com/courtdata/courtsync/internal/domain/player"
	"github.com/courtdata/courtsync/internal/domain/storage"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// PlayerSyncService deduplicates provider player records into canonical
// players. Resolution is tiered: external id, then name within the team's
// roster history, then name plus biography globally, then create. Every
// tier is deterministic; there is no fuzzy scoring.
type PlayerSyncService struct {
	playerRepo   player.Repository
	conflictRepo conflict.Repository
	ids          id.Generator
	logger       *logging.Logger
}

func NewPlayerSyncService(
	playerRepo player.Repository,
	conflictRepo conflict.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *PlayerSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerSyncService{
		playerRepo:   playerRepo,
		conflictRepo: conflictRepo,
		ids:          ids,
		logger:       logger,
	}
}

// SyncPlayer resolves a full biography record. teamID scopes the roster
// tier and may be empty when the provider reports players league-wide.
// This is the entry point for feeds that publish player biographies;
// box-score-only feeds resolve through SyncRoster and SyncPlayerFromStats,
// which carry no biography.
func (s *PlayerSyncService) SyncPlayer(ctx context.Context, source, teamID string, raw RawPlayer) (player.Player, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerSyncService.SyncPlayer")
	defer span.End()

	source = strings.TrimSpace(source)
	raw.ExternalID = strings.TrimSpace(raw.ExternalID)
	raw.FullName = strings.TrimSpace(raw.FullName)
	if source == "" || raw.ExternalID == "" {
		return player.Player{}, "", fmt.Errorf("%w: source and external id are required", ErrInvalidInput)
	}
	if raw.FullName == "" {
		return player.Player{}, "", fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	return s.findOrCreate(ctx, source, teamID, s.parseBiography(ctx, source, raw))
}

// SyncPlayerFromStats resolves the player behind one box-score line. Stat
// lines carry no biography, so resolution stops at the roster tier before
// creating.
func (s *PlayerSyncService) SyncPlayerFromStats(ctx context.Context, source, teamID string, line RawStatLine) (player.Player, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerSyncService.SyncPlayerFromStats")
	defer span.End()

	source = strings.TrimSpace(source)
	externalID := strings.TrimSpace(line.PlayerExternalID)
	name := strings.TrimSpace(line.PlayerName)
	if source == "" || externalID == "" {
		return player.Player{}, "", fmt.Errorf("%w: source and player external id are required", ErrInvalidInput)
	}
	if name == "" {
		return player.Player{}, "", fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	given, surname := canonical.SplitFullName(name)
	incoming := player.Player{
		FullName:       name,
		NormalizedName: canonical.NormalizeName(name),
		GivenName:      given,
		Surname:        surname,
		Positions:      parsePositions(line.Positions),
		ExternalIDs:    map[string]string{source: externalID},
	}
	return s.findOrCreate(ctx, source, teamID, incoming)
}

// DuplicateCandidate is a pair of players sharing a normalized name whose
// known biographies do not line up. These are surfaced for review, never
// merged automatically.
type DuplicateCandidate struct {
	PlayerA player.Player
	PlayerB player.Player
	Reason  string
}

// FindPotentialDuplicates scans the canonical store for same-name players
// from disjoint sources that the biography tier refused to merge.
func (s *PlayerSyncService) FindPotentialDuplicates(ctx context.Context) ([]DuplicateCandidate, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerSyncService.FindPotentialDuplicates")
	defer span.End()

	all, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	byName := make(map[string][]player.Player)
	for _, p := range all {
		byName[p.NormalizedName] = append(byName[p.NormalizedName], p)
	}

	names := make([]string, 0, len(byName))
	for name, group := range byName {
		if len(group) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []DuplicateCandidate
	for _, name := range names {
		group := byName[name]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if sharesSource(a.ExternalIDs, b.ExternalIDs) {
					continue
				}
				reason := "no overlapping biography"
				if a.BiographyMatches(b) {
					continue
				}
				if a.Birthdate != nil && b.Birthdate != nil {
					reason = "birthdates differ"
				} else if a.Height != nil && b.Height != nil {
					reason = "heights differ"
				}
				out = append(out, DuplicateCandidate{PlayerA: a, PlayerB: b, Reason: reason})
			}
		}
	}
	return out, nil
}

func (s *PlayerSyncService) findOrCreate(ctx context.Context, source, teamID string, incoming player.Player) (player.Player, SyncOutcome, error) {
	externalID := incoming.ExternalIDs[source]

	// Tier 1: the pair is already bound.
	existing, ok, err := s.playerRepo.GetBySourceExternalID(ctx, source, externalID)
	if err != nil {
		return player.Player{}, "", fmt.Errorf("get player by external id: %w", err)
	}
	if ok {
		if err := s.playerRepo.FillMissingFields(ctx, existing.ID, incoming); err != nil {
			return player.Player{}, "", fmt.Errorf("fill player fields: %w", err)
		}
		return existing, OutcomeUnchanged, nil
	}

	// Tier 2: same normalized name within the team's roster history.
	if teamID != "" {
		teammates, err := s.playerRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return player.Player{}, "", fmt.Errorf("list players by team: %w", err)
		}
		for _, candidate := range teammates {
			if candidate.NormalizedName == incoming.NormalizedName {
				return s.mergePlayer(ctx, candidate, source, incoming)
			}
		}
	}

	// Tier 3: same normalized name anywhere, but only with corroborating
	// biography. Name alone is never enough globally.
	namesakes, err := s.playerRepo.ListByNormalizedName(ctx, incoming.NormalizedName)
	if err != nil {
		return player.Player{}, "", fmt.Errorf("list players by name: %w", err)
	}
	for _, candidate := range namesakes {
		if candidate.BiographyMatches(incoming) {
			return s.mergePlayer(ctx, candidate, source, incoming)
		}
	}

	created, err := s.createPlayer(ctx, incoming)
	if err == nil {
		s.logger.InfoContext(ctx, "player created",
			"player_id", created.ID, "source", source, "external_id", externalID, "name", incoming.FullName)
		return created, OutcomeCreated, nil
	}
	if !storage.IsConflict(err) {
		return player.Player{}, "", err
	}

	// Lost a create race on the (source, external id) pair. Re-query once;
	// whoever won the insert holds the canonical record.
	existing, ok, err = s.playerRepo.GetBySourceExternalID(ctx, source, externalID)
	if err != nil {
		return player.Player{}, "", fmt.Errorf("requery player by external id: %w", err)
	}
	if ok {
		if err := s.playerRepo.FillMissingFields(ctx, existing.ID, incoming); err != nil {
			return player.Player{}, "", fmt.Errorf("fill player fields: %w", err)
		}
		return existing, OutcomeMerged, nil
	}
	return player.Player{}, "", fmt.Errorf("%w: player source=%s external_id=%s", ErrPersistenceConflict, source, externalID)
}

func (s *PlayerSyncService) mergePlayer(ctx context.Context, candidate player.Player, source string, incoming player.Player) (player.Player, SyncOutcome, error) {
	externalID := incoming.ExternalIDs[source]
	if bound, ok := candidate.ExternalIDs[source]; ok && bound != externalID {
		s.recordPlayerConflict(ctx, candidate, source, incoming, bound)
		return player.Player{}, OutcomeConflict, fmt.Errorf(
			"%w: player %s already bound to %s/%s, provider sent %s",
			ErrExternalIDConflict, candidate.ID, source, bound, externalID)
	}

	if err := s.playerRepo.AddExternalID(ctx, candidate.ID, source, externalID); err != nil {
		if storage.IsConflict(err) {
			existing, ok, reErr := s.playerRepo.GetBySourceExternalID(ctx, source, externalID)
			if reErr != nil {
				return player.Player{}, "", fmt.Errorf("requery after external id race: %w", reErr)
			}
			if ok {
				return existing, OutcomeUnchanged, nil
			}
			return player.Player{}, "", fmt.Errorf("%w: player external id %s/%s", ErrPersistenceConflict, source, externalID)
		}
		return player.Player{}, "", fmt.Errorf("add player external id: %w", err)
	}
	if err := s.playerRepo.FillMissingFields(ctx, candidate.ID, incoming); err != nil {
		return player.Player{}, "", fmt.Errorf("fill player fields: %w", err)
	}

	merged, ok, err := s.playerRepo.GetByID(ctx, candidate.ID)
	if err != nil {
		return player.Player{}, "", fmt.Errorf("reload merged player: %w", err)
	}
	if !ok {
		return player.Player{}, "", fmt.Errorf("%w: player=%s", ErrNotFound, candidate.ID)
	}
	s.logger.InfoContext(ctx, "player merged",
		"player_id", merged.ID, "source", source, "external_id", externalID)
	return merged, OutcomeMerged, nil
}

func (s *PlayerSyncService) createPlayer(ctx context.Context, incoming player.Player) (player.Player, error) {
	newID, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	incoming.ID = newID
	if err := incoming.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.playerRepo.Create(ctx, incoming); err != nil {
		return player.Player{}, err
	}
	return incoming, nil
}

// parseBiography lifts a raw record into a canonical player. Unparseable
// biographical values become unset fields; the record still syncs.
func (s *PlayerSyncService) parseBiography(ctx context.Context, source string, raw RawPlayer) player.Player {
	given, surname := canonical.SplitFullName(raw.FullName)
	out := player.Player{
		FullName:       raw.FullName,
		NormalizedName: canonical.NormalizeName(raw.FullName),
		GivenName:      given,
		Surname:        surname,
		Positions:      parsePositions(raw.Positions),
		ExternalIDs:    map[string]string{source: raw.ExternalID},
	}

	if raw.Height != nil {
		if h, ok := canonical.ParseHeight(raw.Height); ok {
			out.Height = &h
		} else {
			s.logger.WarnContext(ctx, "unparseable height",
				"source", source, "external_id", raw.ExternalID, "value", fmt.Sprint(raw.Height))
		}
	}
	if raw.Birthdate != "" {
		if bd, ok := canonical.ParseBirthdate(raw.Birthdate); ok {
			out.Birthdate = &bd
		} else {
			s.logger.WarnContext(ctx, "unparseable birthdate",
				"source", source, "external_id", raw.ExternalID, "value", raw.Birthdate)
		}
	}
	if raw.Nationality != "" {
		if nat, ok := canonical.ParseNationality(raw.Nationality); ok {
			out.Nationality = nat.Code
		} else {
			s.logger.WarnContext(ctx, "unparseable nationality",
				"source", source, "external_id", raw.ExternalID, "value", raw.Nationality)
		}
	}
	return out
}

func (s *PlayerSyncService) recordPlayerConflict(ctx context.Context, candidate player.Player, source string, incoming player.Player, bound string) {
	externalID := incoming.ExternalIDs[source]
	item := conflict.Conflict{
		EntityKind:      "player",
		Source:          source,
		ExternalID:      externalID,
		MatchedEntityID: candidate.ID,
		Detail: fmt.Sprintf("name match %q but player already bound to external id %s",
			incoming.FullName, bound),
		CreatedAt: time.Now().UTC(),
	}
	if holder, ok, err := s.playerRepo.GetBySourceExternalID(ctx, source, externalID); err != nil {
		s.logger.WarnContext(ctx, "resolve bound player for conflict failed",
			"source", source, "external_id", externalID, "error", err)
	} else if ok {
		item.BoundEntityID = holder.ID
	}
	if newID, err := s.ids.NewID(); err == nil {
		item.ID = newID
	}
	if err := s.conflictRepo.Record(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "record player conflict failed",
			"player_id", candidate.ID, "source", source, "error", err)
		return
	}
	s.logger.WarnContext(ctx, "player external id conflict",
		"player_id", candidate.ID, "source", source, "bound_external_id", bound)
}

func parsePositions(raw string) []canonical.Position {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed := canonical.ParsePositions(raw)
	if len(parsed) == 0 {
		return nil
	}
	return parsed
}

func sharesSource(a, b map[string]string) bool {
	for source := range a {
		if _, ok := b[source]; ok {
			return true
		}
	}
	return false
}
