package team

import (
	"fmt"

	"github.com/courtdata/courtsync/internal/canonical"
)

// Team is a canonical team record merged across providers. ExternalIDs maps
// a provider name to that provider's identifier for this team; the map never
// holds more than one entry per provider, and no two teams may hold the same
// (source, external id) pair.
type Team struct {
	ID             string
	LeagueID       string
	Name           string
	NormalizedName string
	ShortName      string
	City           string
	VenueName      string
	LogoURL        string
	ExternalIDs    map[string]string
}

// SeasonParticipation records that a team took part in a season.
type SeasonParticipation struct {
	TeamID   string
	SeasonID string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.NormalizedName == "" {
		return fmt.Errorf("team normalized name is required")
	}
	if len(t.ExternalIDs) == 0 {
		return fmt.Errorf("team must carry at least one external id")
	}
	return nil
}

// Normalized returns the matching key for a raw team name.
func Normalized(name string) string {
	return canonical.NormalizeName(name)
}
