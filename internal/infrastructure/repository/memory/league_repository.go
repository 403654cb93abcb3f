package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/league"
	"github.com/courtdata/courtsync/internal/domain/storage"
)

type LeagueRepository struct {
	mu         sync.RWMutex
	byID       map[string]league.League
	byExternal map[string]string
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		byID:       make(map[string]league.League),
		byExternal: make(map[string]string),
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) GetBySourceExternalID(_ context.Context, source, externalID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leagueID, ok := r.byExternal[externalKey(source, externalID)]
	if !ok {
		return league.League{}, false, nil
	}
	return r.byID[leagueID], true, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("%w: league id %s", storage.ErrConflict, item.ID)
	}
	r.byID[item.ID] = item
	for source, externalID := range item.ExternalIDs {
		r.byExternal[externalKey(source, externalID)] = item.ID
	}
	return nil
}

func (r *LeagueRepository) AddExternalID(_ context.Context, leagueID, source, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	key := externalKey(source, externalID)
	if owner, exists := r.byExternal[key]; exists && owner != leagueID {
		return fmt.Errorf("%w: league external id %s/%s", storage.ErrConflict, source, externalID)
	}
	if item.ExternalIDs == nil {
		item.ExternalIDs = make(map[string]string)
	}
	item.ExternalIDs[source] = externalID
	r.byID[leagueID] = item
	r.byExternal[key] = leagueID
	return nil
}

type SeasonRepository struct {
	mu         sync.RWMutex
	byID       map[string]league.Season
	byExternal map[string]string
	byYears    map[string]string // league \x00 start \x00 end
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		byID:       make(map[string]league.Season),
		byExternal: make(map[string]string),
		byYears:    make(map[string]string),
	}
}

func seasonYearsKey(leagueID string, startYear, endYear int) string {
	return fmt.Sprintf("%s\x00%d\x00%d", leagueID, startYear, endYear)
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (league.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) GetBySourceExternalID(_ context.Context, source, externalID string) (league.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seasonID, ok := r.byExternal[externalKey(source, externalID)]
	if !ok {
		return league.Season{}, false, nil
	}
	return r.byID[seasonID], true, nil
}

func (r *SeasonRepository) GetByLeagueAndYears(_ context.Context, leagueID string, startYear, endYear int) (league.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seasonID, ok := r.byYears[seasonYearsKey(leagueID, startYear, endYear)]
	if !ok {
		return league.Season{}, false, nil
	}
	return r.byID[seasonID], true, nil
}

func (r *SeasonRepository) Create(_ context.Context, item league.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("%w: season id %s", storage.ErrConflict, item.ID)
	}
	yearsKey := seasonYearsKey(item.LeagueID, item.StartYear, item.EndYear)
	if _, exists := r.byYears[yearsKey]; exists {
		return fmt.Errorf("%w: season years %d-%d", storage.ErrConflict, item.StartYear, item.EndYear)
	}
	for source, externalID := range item.ExternalIDs {
		if _, exists := r.byExternal[externalKey(source, externalID)]; exists {
			return fmt.Errorf("%w: season external id %s/%s", storage.ErrConflict, source, externalID)
		}
	}

	r.byID[item.ID] = item
	r.byYears[yearsKey] = item.ID
	for source, externalID := range item.ExternalIDs {
		r.byExternal[externalKey(source, externalID)] = item.ID
	}
	return nil
}

func (r *SeasonRepository) AddExternalID(_ context.Context, seasonID, source, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[seasonID]
	if !ok {
		return fmt.Errorf("season %s not found", seasonID)
	}
	key := externalKey(source, externalID)
	if owner, exists := r.byExternal[key]; exists && owner != seasonID {
		return fmt.Errorf("%w: season external id %s/%s", storage.ErrConflict, source, externalID)
	}
	if item.ExternalIDs == nil {
		item.ExternalIDs = make(map[string]string)
	}
	item.ExternalIDs[source] = externalID
	r.byID[seasonID] = item
	r.byExternal[key] = seasonID
	return nil
}
