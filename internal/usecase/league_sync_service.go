package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtdata/courtsync/internal/domain/league"
	"github.com/courtdata/courtsync/internal/domain/storage"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// LeagueSyncService maintains leagues and seasons. Leagues are configured,
// not discovered; seasons come from providers and match by external id
// first, then by (league, start year, end year).
type LeagueSyncService struct {
	leagueRepo league.Repository
	seasonRepo league.SeasonRepository
	ids        id.Generator
	logger     *logging.Logger
}

func NewLeagueSyncService(
	leagueRepo league.Repository,
	seasonRepo league.SeasonRepository,
	ids id.Generator,
	logger *logging.Logger,
) *LeagueSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueSyncService{
		leagueRepo: leagueRepo,
		seasonRepo: seasonRepo,
		ids:        ids,
		logger:     logger,
	}
}

// EnsureLeague creates the league if it does not exist yet and returns it.
func (s *LeagueSyncService) EnsureLeague(ctx context.Context, leagueID, name, country string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueSyncService.EnsureLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" || strings.TrimSpace(name) == "" {
		return league.League{}, fmt.Errorf("%w: league id and name are required", ErrInvalidInput)
	}

	existing, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if ok {
		return existing, nil
	}

	item := league.League{ID: leagueID, Name: name, Country: country}
	if err := s.leagueRepo.Create(ctx, item); err != nil {
		if storage.IsConflict(err) {
			existing, ok, reErr := s.leagueRepo.GetByID(ctx, leagueID)
			if reErr == nil && ok {
				return existing, nil
			}
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	s.logger.InfoContext(ctx, "league created", "league_id", leagueID, "name", name)
	return item, nil
}

// SyncSeason finds or creates the season a provider reports for a league.
func (s *LeagueSyncService) SyncSeason(ctx context.Context, leagueID, source string, raw RawSeason) (league.Season, SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueSyncService.SyncSeason")
	defer span.End()

	source = strings.TrimSpace(source)
	raw.ExternalID = strings.TrimSpace(raw.ExternalID)
	if strings.TrimSpace(leagueID) == "" || source == "" || raw.ExternalID == "" {
		return league.Season{}, "", fmt.Errorf("%w: league id, source and external id are required", ErrInvalidInput)
	}
	if raw.StartYear <= 0 {
		return league.Season{}, "", fmt.Errorf("%w: season start year is required", ErrInvalidInput)
	}

	existing, ok, err := s.seasonRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return league.Season{}, "", fmt.Errorf("get season by external id: %w", err)
	}
	if ok {
		return existing, OutcomeUnchanged, nil
	}

	candidate, ok, err := s.seasonRepo.GetByLeagueAndYears(ctx, leagueID, raw.StartYear, raw.EndYear)
	if err != nil {
		return league.Season{}, "", fmt.Errorf("get season by years: %w", err)
	}
	if ok {
		if err := s.seasonRepo.AddExternalID(ctx, candidate.ID, source, raw.ExternalID); err != nil {
			if storage.IsConflict(err) {
				existing, found, reErr := s.seasonRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
				if reErr == nil && found {
					return existing, OutcomeUnchanged, nil
				}
			}
			return league.Season{}, "", fmt.Errorf("add season external id: %w", err)
		}
		reloaded, _, err := s.seasonRepo.GetByID(ctx, candidate.ID)
		if err != nil {
			return league.Season{}, "", fmt.Errorf("reload season: %w", err)
		}
		return reloaded, OutcomeMerged, nil
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return league.Season{}, "", fmt.Errorf("generate season id: %w", err)
	}
	item := league.Season{
		ID:          newID,
		LeagueID:    leagueID,
		Name:        raw.Name,
		StartYear:   raw.StartYear,
		EndYear:     raw.EndYear,
		ExternalIDs: map[string]string{source: raw.ExternalID},
	}
	if err := item.Validate(); err != nil {
		return league.Season{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.seasonRepo.Create(ctx, item); err != nil {
		if storage.IsConflict(err) {
			existing, found, reErr := s.seasonRepo.GetBySourceExternalID(ctx, source, raw.ExternalID)
			if reErr == nil && found {
				return existing, OutcomeUnchanged, nil
			}
			return league.Season{}, "", fmt.Errorf("%w: season source=%s external_id=%s", ErrPersistenceConflict, source, raw.ExternalID)
		}
		return league.Season{}, "", fmt.Errorf("create season: %w", err)
	}
	s.logger.InfoContext(ctx, "season created",
		"season_id", item.ID, "league_id", leagueID, "source", source, "external_id", raw.ExternalID)
	return item, OutcomeCreated, nil
}
