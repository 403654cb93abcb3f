package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/storage"
	"github.com/courtdata/courtsync/internal/domain/team"
)

type TeamRepository struct {
	mu            sync.RWMutex
	byID          map[string]team.Team
	byExternal    map[string]string // source \x00 external id -> team id
	byName        map[string]string // normalized name -> team id
	byShort       map[string]string // lower short name -> team id
	participation map[string]struct{}
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		byID:          make(map[string]team.Team),
		byExternal:    make(map[string]string),
		byName:        make(map[string]string),
		byShort:       make(map[string]string),
		participation: make(map[string]struct{}),
	}
}

func externalKey(source, externalID string) string {
	return source + "\x00" + externalID
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(item), true, nil
}

func (r *TeamRepository) GetBySourceExternalID(_ context.Context, source, externalID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byExternal[externalKey(source, externalID)]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(r.byID[teamID]), true, nil
}

func (r *TeamRepository) GetByNormalizedName(_ context.Context, normalizedName string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byName[normalizedName]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(r.byID[teamID]), true, nil
}

func (r *TeamRepository) GetByShortName(_ context.Context, shortName string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byShort[strings.ToLower(shortName)]
	if !ok {
		return team.Team{}, false, nil
	}
	return cloneTeam(r.byID[teamID]), true, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("%w: team id %s", storage.ErrConflict, item.ID)
	}
	if owner, exists := r.byName[item.NormalizedName]; exists && owner != item.ID {
		return fmt.Errorf("%w: team name %q", storage.ErrConflict, item.NormalizedName)
	}
	for source, externalID := range item.ExternalIDs {
		if owner, exists := r.byExternal[externalKey(source, externalID)]; exists && owner != item.ID {
			return fmt.Errorf("%w: team external id %s/%s", storage.ErrConflict, source, externalID)
		}
	}

	r.byID[item.ID] = cloneTeam(item)
	r.byName[item.NormalizedName] = item.ID
	if item.ShortName != "" {
		r.byShort[strings.ToLower(item.ShortName)] = item.ID
	}
	for source, externalID := range item.ExternalIDs {
		r.byExternal[externalKey(source, externalID)] = item.ID
	}
	return nil
}

func (r *TeamRepository) AddExternalID(_ context.Context, teamID, source, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	key := externalKey(source, externalID)
	if owner, exists := r.byExternal[key]; exists && owner != teamID {
		return fmt.Errorf("%w: team external id %s/%s", storage.ErrConflict, source, externalID)
	}
	if bound, exists := item.ExternalIDs[source]; exists && bound != externalID {
		return fmt.Errorf("%w: team %s already bound for source %s", storage.ErrConflict, teamID, source)
	}

	item.ExternalIDs[source] = externalID
	r.byID[teamID] = item
	r.byExternal[key] = teamID
	return nil
}

func (r *TeamRepository) FillMissingFields(_ context.Context, teamID string, fields team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	if item.ShortName == "" && fields.ShortName != "" {
		item.ShortName = fields.ShortName
		r.byShort[strings.ToLower(fields.ShortName)] = teamID
	}
	if item.City == "" {
		item.City = fields.City
	}
	if item.VenueName == "" {
		item.VenueName = fields.VenueName
	}
	if item.LogoURL == "" {
		item.LogoURL = fields.LogoURL
	}
	r.byID[teamID] = item
	return nil
}

func (r *TeamRepository) EnsureSeasonParticipation(_ context.Context, teamID, seasonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[teamID]; !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	r.participation[teamID+"\x00"+seasonID] = struct{}{}
	return nil
}

// HasSeasonParticipation exists for test assertions.
func (r *TeamRepository) HasSeasonParticipation(teamID, seasonID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.participation[teamID+"\x00"+seasonID]
	return ok
}

func cloneTeam(item team.Team) team.Team {
	out := item
	out.ExternalIDs = make(map[string]string, len(item.ExternalIDs))
	for source, externalID := range item.ExternalIDs {
		out.ExternalIDs[source] = externalID
	}
	return out
}
