package player

import (
	"fmt"

	"github.com/courtdata/courtsync/internal/canonical"
)

// Player is a canonical player record merged across providers. Biographical
// fields are pointers because providers routinely omit them; merges only
// ever fill nil fields, never overwrite non-nil ones.
type Player struct {
	ID             string
	FullName       string
	NormalizedName string
	GivenName      string
	Surname        string
	Positions      []canonical.Position
	Height         *canonical.Height
	Birthdate      *canonical.Birthdate
	Nationality    string // ISO-3166-1 alpha-3, empty when unknown
	ExternalIDs    map[string]string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("player full name is required")
	}
	if p.NormalizedName == "" {
		return fmt.Errorf("player normalized name is required")
	}
	if len(p.ExternalIDs) == 0 {
		return fmt.Errorf("player must carry at least one external id")
	}
	return nil
}

// BiographyMatches implements the tier-3 biography check: equal birthdates
// when both sides know one, otherwise equal heights when both sides know
// one. Two players with no overlapping biography never match.
func (p Player) BiographyMatches(other Player) bool {
	if p.Birthdate != nil && other.Birthdate != nil {
		return p.Birthdate.Equal(*other.Birthdate)
	}
	if p.Height != nil && other.Height != nil {
		return *p.Height == *other.Height
	}
	return false
}
